// Package errors provides structured error types for lockparse.
//
// Every failure the library reports carries a machine-readable [Code] so that
// callers can tell the failure kinds apart:
//
//   - DETECTION_FAILED: the text matches none of the known lock-file shapes
//   - INVALID_JSON / INVALID_YAML: the text is not well-formed (see [IsSyntax])
//   - INVALID_SCHEMA: well-formed, but the ecosystem's marker fields are missing
//   - UNSUPPORTED_VERSION: recognizable, but a generation the parser does not handle
//   - LOCKFILE_NOT_FOUND: no candidate lock file in a directory
//
// # Usage
//
//	doc, err := lockfile.Parse(text)
//	switch {
//	case errors.Is(err, errors.ErrCodeDetection):
//	    // try another file
//	case errors.IsSyntax(err):
//	    // corrupt file
//	}
//
// Syntax errors wrap the decoder error, so the original diagnostic stays in
// the message and is reachable through the standard errors.Unwrap chain.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Lock-file errors
	ErrCodeDetection          Code = "DETECTION_FAILED"
	ErrCodeInvalidJSON        Code = "INVALID_JSON"
	ErrCodeInvalidYAML        Code = "INVALID_YAML"
	ErrCodeInvalidSchema      Code = "INVALID_SCHEMA"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	ErrCodeLockfileNotFound   Code = "LOCKFILE_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsSyntax reports whether err is a JSON or YAML syntax error.
func IsSyntax(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidJSON, ErrCodeInvalidYAML:
		return true
	}
	return false
}

// IsParseFailure reports whether err came from a format parser, as opposed to
// detection, lookup or plain I/O. A parse failure means the file itself is
// unusable; anything else means the caller may look elsewhere.
func IsParseFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidJSON, ErrCodeInvalidYAML, ErrCodeInvalidSchema, ErrCodeUnsupportedVersion:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
