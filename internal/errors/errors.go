package errors

import "fmt"

// ErrorCode represents a Ripple error code.
type ErrorCode string

const (
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"        // 400
	ErrPathNotAllowed        ErrorCode = "PATH_NOT_ALLOWED"       // 403
	ErrNotFound              ErrorCode = "NOT_FOUND"              // 404
	ErrEntryTooLarge         ErrorCode = "ENTRY_TOO_LARGE"        // 413
	ErrInternal              ErrorCode = "INTERNAL"               // 500
	ErrProviderUnconfigured  ErrorCode = "PROVIDER_UNCONFIGURED"  // 503
)

// RippleError represents a structured error with code, status, and details.
type RippleError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RippleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RippleError {
	return &RippleError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewPathNotAllowed creates a 403 error for export paths outside the allowlist.
func NewPathNotAllowed(path string) *RippleError {
	return &RippleError{
		Code:    ErrPathNotAllowed,
		Status:  403,
		Message: fmt.Sprintf("path not allowed: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(identifier string) *RippleError {
	return &RippleError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewEntryTooLarge creates a 413 error when an entry body exceeds the size limit.
func NewEntryTooLarge(max, actual int) *RippleError {
	return &RippleError{
		Code:    ErrEntryTooLarge,
		Status:  413,
		Message: fmt.Sprintf("entry body exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewProviderUnconfigured creates a 503 error for missing model provider
// credentials. This is the only reflection failure surfaced to callers;
// ordinary provider flakiness degrades to a silent outcome instead.
func NewProviderUnconfigured(msg string) *RippleError {
	return &RippleError{
		Code:    ErrProviderUnconfigured,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RippleError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RippleError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a RippleError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RippleError); ok {
		return rErr.Code == code
	}
	return false
}
