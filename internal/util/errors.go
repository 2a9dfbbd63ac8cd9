package util

import (
	"errors"
)

// Temporary is implemented by errors which are caused by network or remote side issues and may go away by themselves.
type Temporary interface {
	Temporary() bool
}

func IsTemporaryError(err error) bool {
	for err := err; err != nil; err = errors.Unwrap(err) {
		if err, ok := err.(Temporary); ok {
			return err.Temporary()
		}
	}
	return false
}
