// Package core provides core types and interfaces for the movie gateway.
package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeConfiguration indicates missing or invalid upstream credentials or base URL
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeRateLimit indicates the upstream answered 429
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeUpstream indicates any other non-2xx upstream status
	ErrorTypeUpstream ErrorType = "upstream_error"
	// ErrorTypeParse indicates an upstream body that is not valid JSON
	ErrorTypeParse ErrorType = "parse_error"
	// ErrorTypeNetwork indicates a transport failure reaching the upstream
	ErrorTypeNetwork ErrorType = "network_error"
	// ErrorTypeNotFound indicates a requested record does not exist (404)
	ErrorTypeNotFound ErrorType = "not_found_error"
	// ErrorTypeValidation indicates caller input that breaks the contract (400)
	ErrorTypeValidation ErrorType = "validation_error"
	// ErrorTypeInternal indicates a failure with no safe fallback (500)
	ErrorTypeInternal ErrorType = "internal_error"
)

// RetryAfterSeconds is the delay advertised to callers after an upstream 429.
const RetryAfterSeconds = 60

// MovieError is the single error type used across the gateway.
// The Type is set where the failure originates and is never recomputed from the message.
type MovieError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	// UpstreamStatus is the HTTP status returned by the upstream, if any
	UpstreamStatus int `json:"-"`
	// Body is the raw upstream body kept for diagnostics (not exposed to clients)
	Body string `json:"-"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *MovieError) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("%s: %s (upstream status %d)", e.Type, e.Message, e.UpstreamStatus)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *MovieError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *MovieError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream, ErrorTypeParse:
		return http.StatusBadGateway
	case ErrorTypeNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the caller may retry the same request later.
// Configuration and validation errors are never retryable.
func (e *MovieError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeNetwork:
		return true
	case ErrorTypeUpstream:
		return e.UpstreamStatus >= 500
	default:
		return false
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *MovieError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// ErrorTypeOf returns the ErrorType carried by err, or "" when err is not a MovieError.
func ErrorTypeOf(err error) ErrorType {
	var movieErr *MovieError
	if errors.As(err, &movieErr) {
		return movieErr.Type
	}
	return ""
}

// IsType reports whether err is a MovieError of the given type.
func IsType(err error, t ErrorType) bool {
	return err != nil && ErrorTypeOf(err) == t
}

// NewConfigurationError creates a new configuration error (500)
func NewConfigurationError(message string) *MovieError {
	return &MovieError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewRateLimitError creates a new rate limit error (429) carrying the upstream body
func NewRateLimitError(message, body string) *MovieError {
	return &MovieError{
		Type:           ErrorTypeRateLimit,
		Message:        message,
		StatusCode:     http.StatusTooManyRequests,
		UpstreamStatus: http.StatusTooManyRequests,
		Body:           body,
	}
}

// NewUpstreamError creates a new bad-upstream-response error (502)
func NewUpstreamError(upstreamStatus int, message, body string) *MovieError {
	return &MovieError{
		Type:           ErrorTypeUpstream,
		Message:        message,
		StatusCode:     http.StatusBadGateway,
		UpstreamStatus: upstreamStatus,
		Body:           body,
	}
}

// NewParseError creates a new parse error (502)
func NewParseError(message string, err error) *MovieError {
	return &MovieError{
		Type:       ErrorTypeParse,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// NewNetworkError creates a new network error (503)
func NewNetworkError(message string, err error) *MovieError {
	return &MovieError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string) *MovieError {
	return &MovieError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string) *MovieError {
	return &MovieError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal error (500)
func NewInternalError(message string, err error) *MovieError {
	return &MovieError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ClassifyUpstreamStatus maps a non-2xx upstream status to a MovieError.
// 429 becomes a rate-limit error; everything else is a bad upstream response.
func ClassifyUpstreamStatus(statusCode int, body []byte) *MovieError {
	text := string(body)
	if statusCode == http.StatusTooManyRequests {
		return NewRateLimitError("upstream rate limit reached (429)", text)
	}
	return NewUpstreamError(statusCode, fmt.Sprintf("upstream returned status %d", statusCode), text)
}
