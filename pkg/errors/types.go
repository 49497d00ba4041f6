package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Database errors
	ErrCodeDatabaseQuery ErrorCode = "DATABASE_QUERY"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// Analysis errors
	ErrCodeToolNotFound    ErrorCode = "TOOL_NOT_FOUND"
	ErrCodeToolFailed      ErrorCode = "TOOL_FAILED"
	ErrCodeParseFailed     ErrorCode = "PARSE_FAILED"
	ErrCodeAnalysisTimeout ErrorCode = "ANALYSIS_TIMEOUT"
	ErrCodeCancelled       ErrorCode = "CANCELLED"

	// Rate limiting
	ErrCodeAPIRateLimit ErrorCode = "API_RATE_LIMIT"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StatusClientClosedRequest is reported when the caller went away mid-analysis
const StatusClientClosedRequest = 499

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode      `json:"code"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	Cause    error          `json:"-"`
	HTTPCode int            `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField:
		return http.StatusBadRequest
	case ErrCodeToolFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeToolNotFound:
		return http.StatusServiceUnavailable
	case ErrCodeParseFailed:
		return http.StatusBadGateway
	case ErrCodeAnalysisTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCancelled:
		return StatusClientClosedRequest
	case ErrCodeAPIRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NotFound creates a not found error
func NotFound(resource string, id any) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// ValidationError creates a validation error
func ValidationError(field string, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// MissingFieldError creates a missing field error
func MissingFieldError(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("required field '%s' is missing", field)).
		WithDetail("field", field)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithDetail("operation", operation)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// RateLimitError creates a rate limit error
func RateLimitError(resource string, limit string) *AppError {
	return New(ErrCodeAPIRateLimit, fmt.Sprintf("rate limit exceeded for '%s': %s", resource, limit)).
		WithDetail("resource", resource).
		WithDetail("limit", limit)
}

// FromAnalysis maps an analyzer failure onto an AppError carrying the
// diagnostics each failure kind exposes. Already-mapped errors pass through.
func FromAnalysis(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var notFound *replaygain.ToolNotFoundError
	var execErr *replaygain.ToolExecutionError
	var parseErr *replaygain.ParseError
	var timeoutErr *replaygain.TimeoutError

	switch {
	case stderrors.Is(err, replaygain.ErrEmptyFilePath):
		return MissingFieldError("path")
	case stderrors.As(err, &notFound):
		return Wrap(err, ErrCodeToolNotFound, "replay gain tool is not available").
			WithDetail("executable", notFound.Executable)
	case stderrors.As(err, &execErr):
		return Wrap(err, ErrCodeToolFailed, "replay gain tool failed").
			WithDetail("exit_code", execErr.ExitCode).
			WithDetail("stderr", execErr.Stderr)
	case stderrors.As(err, &parseErr):
		return Wrap(err, ErrCodeParseFailed, "replay gain tool output could not be parsed").
			WithDetail("raw_output", parseErr.RawOutput)
	case stderrors.As(err, &timeoutErr):
		return Wrap(err, ErrCodeAnalysisTimeout, fmt.Sprintf("analysis timed out after %s", timeoutErr.Timeout)).
			WithDetail("timeout", timeoutErr.Timeout.String())
	case stderrors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCancelled, "analysis cancelled")
	case stderrors.Is(err, replaygain.ErrUnknownProfile):
		return Wrap(err, ErrCodeInvalidInput, "unknown analyzer profile")
	}
	return Wrap(err, ErrCodeInternal, "analysis failed")
}

// Is checks if an error is of a specific type
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
