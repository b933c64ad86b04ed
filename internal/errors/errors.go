// Package errors defines stable error codes for all structdiff failure modes.
// Callers branch on codes rather than message text, and the CLI maps codes
// to exit behavior.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidArgument indicates a required input (tree, option, path) was absent or malformed
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// Cancelled indicates a comparison was aborted via cooperative cancellation
	Cancelled ErrorCode = "CANCELLED"
	// UnsupportedLanguage indicates no grammar is registered for a file type
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// ParseFailed indicates the parser could not produce a tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// StoreUnavailable indicates the report history database could not be opened
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ReportNotFound indicates a report id does not exist in the history store
	ReportNotFound ErrorCode = "REPORT_NOT_FOUND"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// DiffError represents a structdiff error with a stable code and message
type DiffError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new DiffError
func New(code ErrorCode, message string, cause error) *DiffError {
	return &DiffError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new DiffError with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *DiffError {
	return &DiffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *DiffError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DiffError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *DiffError) WithDetails(details interface{}) *DiffError {
	e.Details = details
	return e
}

// CodeOf extracts the stable code from any error. Non-DiffError values
// report InternalError; nil reports an empty code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var de *DiffError
	if errors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// IsCancelled reports whether err represents cooperative cancellation.
func IsCancelled(err error) bool {
	return CodeOf(err) == Cancelled
}
