package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category classifies a failed request by its HTTP status.
type Category string

const (
	// CategoryValidation indicates the backend rejected the request body.
	CategoryValidation Category = "validation"
	// CategoryUnauthorized indicates missing or rejected credentials.
	CategoryUnauthorized Category = "unauthorized"
	// CategoryForbidden indicates the credential lacks the required role.
	CategoryForbidden Category = "forbidden"
	// CategoryNotFound indicates the resource does not exist.
	CategoryNotFound Category = "not_found"
	// CategoryConflict indicates a conflict with existing data.
	CategoryConflict Category = "conflict"
	// CategoryServer indicates a backend-side failure.
	CategoryServer Category = "server"
	// CategoryUnavailable indicates the call never produced an HTTP response.
	CategoryUnavailable Category = "unavailable"
)

// CategoryFromStatus derives a Category from an HTTP status code.
// Status 0 means no response was received.
func CategoryFromStatus(status int) Category {
	switch {
	case status == 0:
		return CategoryUnavailable
	case status == http.StatusUnauthorized:
		return CategoryUnauthorized
	case status == http.StatusForbidden:
		return CategoryForbidden
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusConflict:
		return CategoryConflict
	case status >= 400 && status < 500:
		return CategoryValidation
	default:
		return CategoryServer
	}
}

// RequestFailure is the failure of one CRUD call against the facility API.
// It carries the HTTP status the backend answered with (0 when the request
// never completed) and a message suitable for the screen's notice area.
// It supports error wrapping and unwrapping for use with errors.Is/As.
type RequestFailure struct {
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RequestFailure) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *RequestFailure) Unwrap() error { return e.Cause }

// Category returns the HTTP-status-derived category of the failure.
func (e *RequestFailure) Category() Category { return CategoryFromStatus(e.Status) }

// NewRequestFailure creates a RequestFailure for an HTTP error response.
func NewRequestFailure(status int, message string) *RequestFailure {
	return &RequestFailure{Status: status, Message: message}
}

// WrapRequestFailure creates a RequestFailure for a call that produced no
// HTTP response at all (transport error, cancelled context, bad payload).
func WrapRequestFailure(err error, message string) *RequestFailure {
	return &RequestFailure{Message: message, Cause: err}
}

// AsRequestFailure extracts a RequestFailure from an error chain.
func AsRequestFailure(err error) (*RequestFailure, bool) {
	var rf *RequestFailure
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

// IsNotFound reports whether err is a RequestFailure with the not_found category.
func IsNotFound(err error) bool {
	rf, ok := AsRequestFailure(err)
	return ok && rf.Category() == CategoryNotFound
}

// SessionFault is an identity-provider communication or configuration
// failure. It is recovered locally by forcing the unauthenticated state and
// surfaced to the user only as a prompt to log in again.
type SessionFault struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *SessionFault) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Op
}

// Unwrap returns the underlying cause.
func (e *SessionFault) Unwrap() error { return e.Cause }

// NewSessionFault wraps a provider-level error with the failing operation.
func NewSessionFault(op string, cause error) *SessionFault {
	return &SessionFault{Op: op, Cause: cause}
}

// IsSessionFault reports whether err wraps a SessionFault.
func IsSessionFault(err error) bool {
	var sf *SessionFault
	return errors.As(err, &sf)
}
