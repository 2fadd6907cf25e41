// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripts consuming --json output.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes. Upper-case, underscore-separated and stable across minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	SubtaskNotFound    = "SUBTASK_NOT_FOUND"
	AmbiguousID        = "AMBIGUOUS_ID"
	StoreNotFound      = "STORE_NOT_FOUND"
	StoreAlreadyExists = "STORE_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidStatus      = "INVALID_STATUS"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidEnergy      = "INVALID_ENERGY"
	InvalidSlot        = "INVALID_SLOT"
	InvalidRecurrence  = "INVALID_RECURRENCE"
	InvalidDate        = "INVALID_DATE"
	InvalidMode        = "INVALID_MODE"
	InvalidGroupBy     = "INVALID_GROUP_BY"
	NoChanges          = "NO_CHANGES"
	StatusConflict     = "STATUS_CONFLICT"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	NothingToUndo      = "NOTHING_TO_UNDO"
	InvalidPayload     = "INVALID_PAYLOAD"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or
// InternalError when there is none.
func CodeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// SilentError signals an exit code without additional output.
// Used when results have already been written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
