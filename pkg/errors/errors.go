package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Environment errors (fatal: abort before reconciliation)
	ErrRootResolve ErrorCode = "ROOT_RESOLVE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestLoad  ErrorCode = "MANIFEST_LOAD"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Library snapshot errors
	ErrLibraryLoad  ErrorCode = "LIBRARY_LOAD"
	ErrLibraryParse ErrorCode = "LIBRARY_PARSE"

	// Probe errors (per-entry: converted to diagnostics, never fatal)
	ErrProbeRead ErrorCode = "PROBE_READ"

	// Collaborator errors
	ErrVCSQuery    ErrorCode = "VCS_QUERY"
	ErrReportWrite ErrorCode = "REPORT_WRITE"
	ErrReportMail  ErrorCode = "REPORT_MAIL"

	// ErrChecksFailed is the sentinel for a completed pass that found
	// errors; the CLI maps it to a non-zero exit without re-printing.
	ErrChecksFailed ErrorCode = "CHECKS_FAILED"

	// Snippet synthesis errors
	ErrSnippetBuild ErrorCode = "SNIPPET_BUILD"
)

// PatchcheckError represents a structured error with code and details
type PatchcheckError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PatchcheckError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PatchcheckError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PatchcheckError) Is(target error) bool {
	var targetErr *PatchcheckError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PatchcheckError with the given code and message
func New(code ErrorCode, message string) *PatchcheckError {
	return &PatchcheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PatchcheckError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PatchcheckError {
	return &PatchcheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PatchcheckError
func Wrap(err error, code ErrorCode, message string) *PatchcheckError {
	if err == nil {
		return nil
	}
	return &PatchcheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PatchcheckError {
	if err == nil {
		return nil
	}
	return &PatchcheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PatchcheckError) WithDetail(key string, value interface{}) *PatchcheckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pcErr *PatchcheckError
	if errors.As(err, &pcErr) {
		return pcErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PatchcheckError
func GetErrorCode(err error) ErrorCode {
	var pcErr *PatchcheckError
	if errors.As(err, &pcErr) {
		return pcErr.Code
	}
	return ErrUnknown
}
