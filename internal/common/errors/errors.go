// Package errors provides standardized error handling for the gateway HTTP surface.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamUnreachable ErrorCode = "UPSTREAM_UNREACHABLE"
	ErrCodeMalformedUpstream   ErrorCode = "MALFORMED_UPSTREAM_RESPONSE"
	ErrCodeAllUpstreamsFailed  ErrorCode = "ALL_UPSTREAMS_FAILED"
	ErrCodeProxyUpstreamError  ErrorCode = "PROXY_UPSTREAM_ERROR"

	ErrCodeAuthMissingKey ErrorCode = "AUTH_MISSING_API_KEY"
	ErrCodeAuthInvalidKey ErrorCode = "AUTH_INVALID_API_KEY"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeAnalyticsQueryFailed   ErrorCode = "ANALYTICS_QUERY_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError creates a retryable downstream timeout error.
func NewUpstreamTimeoutError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   fmt.Sprintf("Downstream service '%s' timed out", service),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnreachableError creates a retryable downstream connection error.
func NewUpstreamUnreachableError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnreachable,
		Message:   fmt.Sprintf("Downstream service '%s' unreachable", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedUpstreamError creates a non-retryable upstream response error.
func NewMalformedUpstreamError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedUpstream,
		Message:   fmt.Sprintf("Downstream service '%s' returned an unusable response", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAllUpstreamsFailedError creates the aggregate error surfaced when every
// downstream call of a composed request failed.
func NewAllUpstreamsFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAllUpstreamsFailed,
		Message:   "All downstream services failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProxyUpstreamError creates an error carrying the upstream HTTP status of a
// failed proxy passthrough.
func NewProxyUpstreamError(service string, status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProxyUpstreamError,
		Message:   fmt.Sprintf("Upstream service '%s' returned %d", service, status),
		Details:   body,
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"upstreamStatus": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthMissingKeyError creates a non-retryable authentication error.
func NewAuthMissingKeyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthMissingKey,
		Message:   "Missing API key",
		Details:   "set the X-API-Key header",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthInvalidKeyError creates a non-retryable authentication error.
func NewAuthInvalidKeyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInvalidKey,
		Message:   "Invalid API key",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification delivery error.
func NewNotificationSendFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalyticsQueryFailedError creates a retryable analytics lookup error.
func NewAnalyticsQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalyticsQueryFailed,
		Message:   "Analytics query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a retryable catch-all error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal gateway error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps internal error codes to the HTTP status the gateway surfaces.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeAuthMissingKey, ErrCodeAuthInvalidKey:
		return http.StatusUnauthorized
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamUnreachable, ErrCodeMalformedUpstream,
		ErrCodeAllUpstreamsFailed, ErrCodeProxyUpstreamError,
		ErrCodeNotificationSendFailed, ErrCodeAnalyticsQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeUpstreamTimeout, ErrCodeUpstreamUnreachable,
		ErrCodeAllUpstreamsFailed, ErrCodeNotificationSendFailed,
		ErrCodeAnalyticsQueryFailed, ErrCodeInternal:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "PROXY"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ANALYTICS"):
		return "ANALYTICS"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
