package rss

import (
	"errors"
	"fmt"

	"github.com/KonishchevDmitry/rssreader/internal/util"
)

// ParseError is returned when the document is not a well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid feed document: %s", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError is returned when the document stream fails in the middle of parsing.
type IOError struct {
	Err error
}

var _ util.Temporary = &IOError{}

func (e *IOError) Temporary() bool {
	return true
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read feed document: %s", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type readError struct {
	error error
}

func (e readError) Error() string {
	return e.error.Error()
}

func (e readError) Unwrap() error {
	return e.error
}

func classifyError(err error) error {
	var readErr readError
	if errors.As(err, &readErr) {
		return &IOError{Err: readErr.error}
	}
	return &ParseError{Err: err}
}
