package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Components construct AppErrors with these codes
// instead of ad-hoc strings so failure reasons stay machine-readable in
// AlertRecords and logs.
const (
	// Provider / formatter
	ErrCodeProviderMalformed   ErrorCode = "provider_malformed_data"
	ErrCodeProviderTimeout     ErrorCode = "provider_timeout"
	ErrCodeProviderUnavailable ErrorCode = "provider_unavailable"
	ErrCodeProviderRateLimited ErrorCode = "provider_rate_limited"

	// Notification channel
	ErrCodeChannelSend    ErrorCode = "channel_send_failed"
	ErrCodeChannelTimeout ErrorCode = "channel_timeout"

	// Configuration / startup
	ErrCodeConfigInvalid      ErrorCode = "config_invalid"
	ErrCodeMissingTranslation ErrorCode = "config_missing_translation"

	// Internal
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to the status the ops surface reports when a
// manual run trigger fails. Unrecognized codes default to 500.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case c == ErrCodeProviderRateLimited:
		return http.StatusTooManyRequests
	case strings.HasPrefix(s, "provider_"):
		return http.StatusBadGateway
	case strings.HasPrefix(s, "channel_"):
		return http.StatusBadGateway
	case strings.HasPrefix(s, "config_"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. Domain failures are
// expressed as AppError so the dispatcher can translate them into
// AlertRecord failure reasons without string matching.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
