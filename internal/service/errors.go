package service

import (
	"errors"
	"fmt"
)

// Kind discriminates sync errors so the HTTP boundary can map each one to
// a status code without inspecting messages.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindSync       Kind = "SYNC_ERROR"
)

// Error is the discriminated error returned by all sync operations
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

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed or out-of-enum input
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing or foreign-tenant reference
func NewNotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewSyncError wraps an unexpected storage or pipeline failure
func NewSyncError(err error, message string) *Error {
	return &Error{Kind: KindSync, Message: message, Err: err}
}

// KindOf extracts the error kind; unrecognized errors are internal
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindSync
}
