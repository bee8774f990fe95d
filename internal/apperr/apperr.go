// Package apperr defines the error variants surfaced to HTTP clients.
package apperr

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind tags an Error with the failure class that decides its HTTP shape.
type Kind int

const (
	// KindInternal is a store or unexpected fault.
	KindInternal Kind = iota
	// KindValidation is a caller fault that can be fixed by correcting input.
	KindValidation
	// KindNotFound is an unmatched route.
	KindNotFound
	// KindNotification means the record was persisted but delivery failed.
	KindNotification
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Label returns "fail" for client faults and "error" for server faults.
func (k Kind) Label() string {
	if k.Status() < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNotification:
		return "notification"
	default:
		return "internal"
	}
}

// Error is a client-facing failure. Message is safe to return to callers;
// the wrapped cause is only logged.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil || e.cause.Error() == e.Message {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Stack returns the stack recorded when the error was created.
func (e *Error) Stack() string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	if !stderrors.As(e.cause, &st) {
		return ""
	}
	return fmt.Sprintf("%s%+v", e.Error(), st.StackTrace())
}

func newError(kind Kind, message string, cause error) *Error {
	if cause == nil {
		cause = errors.New(message)
	} else {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation reports invalid caller input.
func Validation(message string) *Error {
	return newError(KindValidation, message, nil)
}

// NotFound reports an unmatched route or resource.
func NotFound(message string) *Error {
	return newError(KindNotFound, message, nil)
}

// Internal wraps a server-side fault.
func Internal(message string, cause error) *Error {
	return newError(KindInternal, message, cause)
}

// Notification wraps a delivery fault that happened after the record was saved.
func Notification(message string, cause error) *Error {
	return newError(KindNotification, message, cause)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, treating foreign errors as internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
