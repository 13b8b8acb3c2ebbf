// Package response provides standardized HTTP response builders for the fare API.
// It centralizes response formatting to ensure consistency across all endpoints.
package response

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in API responses.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeValidationError    = "validation_error"
	CodeServiceUnavailable = "service_unavailable"
	CodeUpstreamError      = "upstream_error"
	CodeTimeout            = "timeout"
	CodeInternalError      = "internal_error"
)

// Error messages used in API responses.
const (
	MsgInvalidRequest     = "Failed to parse request parameters"
	MsgValidationFailed   = "Request validation failed"
	MsgServiceUnavailable = "The booking API is rate limiting requests, try again later"
	MsgUpstreamError      = "The booking API returned an unexpected response"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgInternalError      = "An unexpected error occurred"
)
