// Package apperror defines the error kinds surfaced by blog workflows.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	Validation        Kind = "VALIDATION"
	Upload            Kind = "UPLOAD"
	Delete            Kind = "DELETE"
	Conflict          Kind = "CONFLICT"
	Transport         Kind = "TRANSPORT"
	NotFound          Kind = "NOT_FOUND"
	Forbidden         Kind = "FORBIDDEN"
	InvalidTransition Kind = "INVALID_TRANSITION"
	Internal          Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Origin  error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Origin
}

func New(kind Kind, message string, origin error) *Error {
	return &Error{Kind: kind, Message: message, Origin: origin}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// Internal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Message returns the user-facing message of err without its cause chain.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// Retryable reports whether the user can retry the operation unchanged.
// Draft state is retained for every retryable failure.
func Retryable(err error) bool {
	switch KindOf(err) {
	case Upload, Delete, Transport:
		return true
	default:
		return false
	}
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Conflict, InvalidTransition:
		return http.StatusConflict
	case Upload, Delete, Transport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
