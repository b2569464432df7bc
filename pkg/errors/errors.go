// Package errors provides structured error types for okplanar.
//
// Every failure a solve can produce maps to a machine-readable [Code], so the
// CLI, the HTTP API and batch reports can react to the category rather than
// the message:
//   - INVALID_*: malformed arguments, graphs, formats or paths
//   - NOT_CONNECTED / NOT_BICONNECTED: structural preconditions
//   - UNSOLVED: no arrangement within the crossing ceiling
//   - MALFORMED_TREE / INTERNAL_ERROR: bugs, never user mistakes
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "vertex %d out of range", v)
//	if errors.Is(err, errors.ErrCodeUnsolved) {
//	    // raise the ceiling and retry
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "render %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Structural preconditions
	ErrCodeNotConnected   Code = "NOT_CONNECTED"
	ErrCodeNotBiconnected Code = "NOT_BICONNECTED"
	ErrCodeTooLarge       Code = "TOO_LARGE"

	// Search outcomes
	ErrCodeUnsolved Code = "UNSOLVED"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeMalformedTree Code = "MALFORMED_TREE"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
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
