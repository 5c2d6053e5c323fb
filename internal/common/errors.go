// Package common defines shared constants and sentinel errors used across
// the noteshare server. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error classes. Each maps to exactly one client-facing status.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorValidation    = errors.New("validation error")
	ErrorUnprocessable = errors.New("unprocessable entity")

	// Token errors (codec level).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error pairs an error class with the message a client is allowed to see.
// Cause, when set, keeps the underlying error reachable for errors.Is/As and
// for logging.
type Error struct {
	Class error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Class.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Cause}
}

// Unauthorized builds an ErrorUnauthorized with a client message.
func Unauthorized(msg string) error {
	return &Error{Class: ErrorUnauthorized, Msg: msg}
}

// AsUnauthorized reclassifies err as ErrorUnauthorized, surfacing its text as
// the client message. Errors that already carry the class are returned as is.
func AsUnauthorized(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrorUnauthorized) {
		return err
	}
	return &Error{Class: ErrorUnauthorized, Msg: err.Error(), Cause: err}
}

func Forbidden(msg string) error {
	return &Error{Class: ErrorForbidden, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Class: ErrorNotFound, Msg: msg}
}

func BadRequest(format string, args ...any) error {
	return &Error{Class: ErrorValidation, Msg: fmt.Sprintf(format, args...)}
}

func Unprocessable(msg string) error {
	return &Error{Class: ErrorUnprocessable, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Class: ErrorAlreadyExists, Msg: msg}
}

// ClientMessage returns the text that may be shown to a client for err.
// Errors without an explicit message fall back to their class name; unknown
// errors are reported as a generic internal error.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	for _, class := range []error{ErrorNotFound, ErrorAlreadyExists, ErrorUnauthorized,
		ErrorForbidden, ErrorValidation, ErrorUnprocessable} {
		if errors.Is(err, class) {
			return class.Error()
		}
	}
	return ErrorInternal.Error()
}
