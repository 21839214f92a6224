// Package apperr defines the error taxonomy shared by services and controllers.
// Every error rendered to a client is mapped through Status, so internal
// details (SQL errors, stack traces) never reach the response body.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

// Error carries a client-safe Detail and, for validation failures, per-field messages.
type Error struct {
	Kind   Kind
	Detail string
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(detail string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Fields: fields}
}

// Field is a validation error on a single field; the field message doubles as the detail.
func Field(field, msg string) *Error {
	return Validation(msg, map[string][]string{field: {msg}})
}

func Unauthorized(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Detail: detail}
}

func Forbidden(detail string) *Error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// Internal wraps err; the wrapped error is logged, never shown.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Detail: "Server Error (500)", Err: err}
}

// As extracts an *Error from err. Anything that is not an *Error is treated as internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

func Status(err error) int {
	return As(err).Status()
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
