// Package apperror defines the error kinds services return and the
// transport layer translates into status codes.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindUnauthorized      Kind = "unauthorized"
	KindUnavailable       Kind = "unavailable"
	KindInternal          Kind = "internal"
)

// Error carries the failing operation, its kind and a client-safe message.
// Err holds the underlying cause and is never shown to clients.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...any) *Error {
	return newError(op, KindValidation, format, args...)
}

func NotFound(op, format string, args ...any) *Error {
	return newError(op, KindNotFound, format, args...)
}

func Conflict(op, format string, args ...any) *Error {
	return newError(op, KindConflict, format, args...)
}

func InvalidTransition(op, format string, args ...any) *Error {
	return newError(op, KindInvalidTransition, format, args...)
}

func Unauthorized(op, format string, args ...any) *Error {
	return newError(op, KindUnauthorized, format, args...)
}

func Unavailable(op string, err error, format string, args ...any) *Error {
	e := newError(op, KindUnavailable, format, args...)
	e.Err = err
	return e
}

// Internal wraps an unexpected failure. The message is fixed so storage
// details never leak to clients.
func Internal(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
