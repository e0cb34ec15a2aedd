package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for draw-engine errors.
type ErrorCode string

// Draw request error codes
const (
	CITY_REQUIRED        ErrorCode = "CITY_REQUIRED"
	INVALID_TARGET_COUNT ErrorCode = "INVALID_TARGET_COUNT"
	REGION_NOT_FOUND     ErrorCode = "REGION_NOT_FOUND"
	NO_PLACES_AVAILABLE  ErrorCode = "NO_PLACES_AVAILABLE"
)

// Quota error codes
const (
	DAILY_LIMIT_EXCEEDED    ErrorCode = "DAILY_LIMIT_EXCEEDED"
	EXCEEDS_REMAINING_QUOTA ErrorCode = "EXCEEDS_REMAINING_QUOTA"
	QUOTA_INCREMENT_FAILED  ErrorCode = "QUOTA_INCREMENT_FAILED"
)

// Storage error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
	DB_WRITE_FAILED     ErrorCode = "DB_WRITE_FAILED"
)

// Advisor error codes
const (
	ADVISOR_UNAVAILABLE  ErrorCode = "ADVISOR_UNAVAILABLE"
	ADVISOR_TIMEOUT      ErrorCode = "ADVISOR_TIMEOUT"
	ADVISOR_UNAUTHORIZED ErrorCode = "ADVISOR_UNAUTHORIZED"
	ADVISOR_RATE_LIMITED ErrorCode = "ADVISOR_RATE_LIMITED"
	ADVISOR_PARSE_FAILED ErrorCode = "ADVISOR_PARSE_FAILED"
)

// Reward error codes
const (
	REWARD_GRANT_FAILED ErrorCode = "REWARD_GRANT_FAILED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// EngineError represents a structured error with error code, message, and optional cause.
// It supports error wrapping, retryability hints, and machine-readable details such as
// the remaining quota on a rejected draw.
type EngineError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]any
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *EngineError) Is(target error) bool {
	var engineErr *EngineError
	if errors.As(target, &engineErr) {
		return e.Code == engineErr.Code
	}
	return false
}

// WithDetail attaches a machine-readable detail to the error and returns it
// for chaining. Clients use details for retry sizing (e.g. "remaining").
func (e *EngineError) WithDetail(key string, value any) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// Detail returns the named detail value, or nil if absent.
func (e *EngineError) Detail(key string) any {
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// NewError creates a new non-retryable EngineError with the given code and message.
func NewError(code ErrorCode, message string) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable EngineError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable EngineError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// CodeOf extracts the ErrorCode from err, or empty string if err is not an EngineError.
func CodeOf(err error) ErrorCode {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return ""
}
