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
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Resolution errors
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"
	ErrAliasUnknown   ErrorCode = "ALIAS_UNKNOWN"
	ErrLabelUnknown   ErrorCode = "LABEL_UNKNOWN"
	ErrSnippetUnknown ErrorCode = "SNIPPET_UNKNOWN"

	// FileSystem errors
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
	ErrFileCopy       ErrorCode = "FILE_COPY"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrFileDelete     ErrorCode = "FILE_DELETE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrDestUnwritable ErrorCode = "DEST_UNWRITABLE"
)

// LcopyError represents a structured error with code and details
type LcopyError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LcopyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LcopyError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LcopyError) Is(target error) bool {
	var targetErr *LcopyError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LcopyError with the given code and message
func New(code ErrorCode, message string) *LcopyError {
	return &LcopyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LcopyError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LcopyError {
	return &LcopyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LcopyError
func Wrap(err error, code ErrorCode, message string) *LcopyError {
	if err == nil {
		return nil
	}
	return &LcopyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LcopyError {
	if err == nil {
		return nil
	}
	return &LcopyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LcopyError) WithDetail(key string, value interface{}) *LcopyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LcopyError) WithDetails(details map[string]interface{}) *LcopyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var lcopyErr *LcopyError
	if errors.As(err, &lcopyErr) {
		return lcopyErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LcopyError
func GetErrorCode(err error) ErrorCode {
	var lcopyErr *LcopyError
	if errors.As(err, &lcopyErr) {
		return lcopyErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LcopyError
func GetErrorDetails(err error) map[string]interface{} {
	var lcopyErr *LcopyError
	if errors.As(err, &lcopyErr) {
		return lcopyErr.Details
	}
	return nil
}
