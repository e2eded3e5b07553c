// Package errors provides structured error types for sankeyflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout engine raises exactly four data errors, all fatal to the render
// call:
//   - NULLS_PRESENT: a labelled cell has no weight
//   - LABEL_MISMATCH: an explicit label order disagrees with the data
//   - MISSING_COLOR: an observed label has no colour assignment
//   - EMPTY_STAGE: a stage has no label with non-zero weight
//
// The remaining INVALID_* codes cover malformed tables, options and formats.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLabelMismatch, "stage %d labels do not match", i)
//	if errors.Is(err, errors.ErrCodeLabelMismatch) {
//	    // Handle mismatch
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidTable, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data errors raised by the layout engine
	ErrCodeNullsPresent  Code = "NULLS_PRESENT"
	ErrCodeLabelMismatch Code = "LABEL_MISMATCH"
	ErrCodeMissingColor  Code = "MISSING_COLOR"
	ErrCodeEmptyStage    Code = "EMPTY_STAGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTable  Code = "INVALID_TABLE"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// As finds the first error in err's chain that matches target.
// It mirrors the standard library so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// GetCodeOr returns the error code of err, or fallback when err carries
// none.
func GetCodeOr(err error, fallback Code) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	return fallback
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

// IsDataError reports whether err is one of the four layout data errors.
// The HTTP API reports these as 422 rather than 400.
func IsDataError(err error) bool {
	switch GetCode(err) {
	case ErrCodeNullsPresent, ErrCodeLabelMismatch, ErrCodeMissingColor, ErrCodeEmptyStage:
		return true
	}
	return false
}
