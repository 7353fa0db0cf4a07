package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP boundary can map it to a status code.
type Kind int

const (
	Internal Kind = iota
	Validation
	DuplicateEmail
	InvalidCredentials
	Unauthenticated
	Forbidden
	NotFound
	EmptyCart
	InvalidStatus
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause that must never reach the client.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to Internal for anything
// that did not come through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-safe message for err. Unclassified errors get a
// generic message so storage-layer details never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, DuplicateEmail, EmptyCart, InvalidStatus:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
