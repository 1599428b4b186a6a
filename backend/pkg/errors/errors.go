package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of error
type Kind string

const (
	// KindValidation represents malformed or missing input
	KindValidation Kind = "validation"
	// KindNotFound represents a referenced record that does not exist
	KindNotFound Kind = "not_found"
	// KindForbidden represents an operation rejected by an authorization policy
	KindForbidden Kind = "forbidden"
	// KindUnauthorized represents a missing or unverifiable identity
	KindUnauthorized Kind = "unauthorized"
	// KindConflict represents a uniqueness or duplicate-state violation
	KindConflict Kind = "conflict"
	// KindInternal represents a store or unexpected failure
	KindInternal Kind = "internal"
)

// Error is the error type carried across the service and API layers.
// The Kind drives the HTTP status, Message is safe to show to callers,
// Err holds the wrapped cause (store errors, parse errors).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/As chains
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and caller-safe message to an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// NotFound creates a not-found error for a named resource
func NotFound(resource string) *Error {
	return Newf(KindNotFound, "%s not found", resource)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal wraps an unexpected failure; the message stays generic,
// the cause is preserved for logs
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal error", err)
}

// KindOf classifies any error. Unrecognized errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind anywhere in its chain
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// PublicMessage returns the message safe to expose to a caller.
// Internal errors collapse to a generic message unless devMode is set.
func PublicMessage(err error, devMode bool) string {
	var e *Error
	if !errors.As(err, &e) {
		if devMode {
			return err.Error()
		}
		return "Internal server error"
	}
	if e.Kind == KindInternal && !devMode {
		return "Internal server error"
	}
	return e.Message
}
