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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"
	ErrConfigParse  ErrorCode = "CONFIG_PARSE"
	ErrConfigKey    ErrorCode = "CONFIG_KEY"
	ErrConfigSealed ErrorCode = "CONFIG_SEALED"

	// Pattern errors
	ErrPatternSyntax ErrorCode = "PATTERN_SYNTAX"

	// Template errors
	ErrPlaceholder ErrorCode = "PLACEHOLDER_UNRESOLVED"

	// Rule errors
	ErrRuleInvalid  ErrorCode = "RULE_INVALID"
	ErrRuleNotFound ErrorCode = "RULE_NOT_FOUND"

	// Output lifecycle errors
	ErrDuplicateOutput ErrorCode = "OUTPUT_DUPLICATE"
	ErrLifecycleOrder  ErrorCode = "LIFECYCLE_ORDER"
)

// RulekitError represents a structured error with code and details
type RulekitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RulekitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RulekitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RulekitError) Is(target error) bool {
	var targetErr *RulekitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RulekitError with the given code and message
func New(code ErrorCode, message string) *RulekitError {
	return &RulekitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RulekitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RulekitError {
	return &RulekitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RulekitError
func Wrap(err error, code ErrorCode, message string) *RulekitError {
	if err == nil {
		return nil
	}
	return &RulekitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RulekitError {
	if err == nil {
		return nil
	}
	return &RulekitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RulekitError) WithDetail(key string, value interface{}) *RulekitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rkErr *RulekitError
	if errors.As(err, &rkErr) {
		return rkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RulekitError
func GetErrorCode(err error) ErrorCode {
	var rkErr *RulekitError
	if errors.As(err, &rkErr) {
		return rkErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RulekitError
func GetErrorDetails(err error) map[string]interface{} {
	var rkErr *RulekitError
	if errors.As(err, &rkErr) {
		return rkErr.Details
	}
	return nil
}
