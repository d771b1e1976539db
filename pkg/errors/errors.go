package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single failure shape surfaced by the client: a status, the
// raw decoded response body when there was one, and a human readable message.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so clones still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized        = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict            = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusUnprocessableEntity, "validation failed")
	ErrUpstream            = New("UPSTREAM_ERROR", http.StatusBadGateway, "server error")
	ErrRequestFailed       = New("REQUEST_FAILED", http.StatusBadRequest, "request failed")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
	ErrTransport           = New("TRANSPORT_ERROR", 0, "Network error. Check your connection and try again.")
	ErrConfirmationPending = New("CONFIRMATION_PENDING", 0, "another confirmation is already pending")
	ErrNoConfirmation      = New("NO_CONFIRMATION", 0, "no confirmation is pending")
	ErrCancelled           = New("CANCELLED", 0, "cancelled")
	ErrNotAuthenticated    = New("NOT_AUTHENTICATED", http.StatusUnauthorized, "Please log in first.")
)

// FromStatus picks the predefined code matching an HTTP status.
func FromStatus(status int, message string, data interface{}) *Error {
	var base *Error
	switch {
	case status == http.StatusUnauthorized:
		base = ErrUnauthorized
	case status == http.StatusForbidden:
		base = ErrForbidden
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusConflict:
		base = ErrConflict
	case status == http.StatusUnprocessableEntity:
		base = ErrValidation
	case status >= http.StatusInternalServerError:
		base = ErrUpstream
	default:
		base = ErrRequestFailed
	}
	return &Error{Code: base.Code, Status: status, Message: message, Data: data}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Message returns the text shown to the user for err.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
