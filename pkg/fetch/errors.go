package fetch

import (
	"errors"
	"net"

	"github.com/KonishchevDmitry/rssreader/internal/util"
)

// NetworkError is returned when the connection can't be established or the server doesn't return the document.
type NetworkError struct {
	Err       error
	temporary bool
}

var _ util.Temporary = &NetworkError{}

func (e *NetworkError) Temporary() bool {
	return e.temporary
}

// Timeout reports whether the error has been caused by connection or response timeout.
func (e *NetworkError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
