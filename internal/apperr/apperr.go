// Package apperr carries recoverable domain failures. The message of an
// Error is meant to be shown to the end user as is.
package apperr

import (
	"errors"
	"fmt"
)

// Error is a domain failure: a display message plus the sentinel kind it
// unwraps to, so callers can branch with errors.Is.
type Error struct {
	kind error
	msg  string
}

func New(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// IsFailure reports whether err is (or wraps) a domain failure, as opposed
// to an infrastructure error such as a failed save.
func IsFailure(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
