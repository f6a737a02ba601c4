// Package errors provides structured error types for gliffydb.
//
// Errors carry a machine-readable [Code] so callers (CLI, HTTP API) can map a
// failure to an exit message or status without string matching.
//
// # Error Codes
//
// The document core reports three kinds of failure:
//   - INVALID_ARGUMENT: wrong shape passed to merge, constructors or parents
//   - TYPE_CONSTRAINT: a nil/non-node child, a nil graphic, properties on a bare node
//   - VALUE_COERCION: a property value was replaced by its registered default
//
// INVALID_ARGUMENT and TYPE_CONSTRAINT are returned from the offending call.
// VALUE_COERCION is a diagnostic: it is reported, never returned as a failure.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTypeConstraint, "cannot add nil child to %s", uid)
//	if errors.Is(err, errors.ErrCodeTypeConstraint) {
//	    // handle
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document core
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeTypeConstraint  Code = "TYPE_CONSTRAINT"
	ErrCodeValueCoercion   Code = "VALUE_COERCION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
