package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers.
var (
	// ErrInvalidRequest indicates the caller supplied invalid search parameters.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimited indicates the booking API explicitly blocked the request.
	// It is the only failure the slow retry phase re-drives.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrUpstream indicates any other upstream failure: transport errors,
	// timeouts, malformed payloads and unexpected statuses.
	ErrUpstream = errors.New("upstream failure")

	// ErrNoDestinations indicates the origin has no serviceable destinations.
	ErrNoDestinations = errors.New("no destinations available")
)

// UpstreamError carries the details of a failed booking API call.
type UpstreamError struct {
	// Op names the upstream operation (e.g. "search", "destinations")
	Op string

	// Status is the HTTP status code, or 0 when no response was received
	Status int

	// Err is the underlying cause; ErrRateLimited or ErrUpstream are
	// reachable through Unwrap.
	Err error
}

// NewUpstreamError builds an UpstreamError classified as a generic failure.
func NewUpstreamError(op string, status int, cause error) *UpstreamError {
	if cause == nil {
		cause = ErrUpstream
	} else if !errors.Is(cause, ErrUpstream) {
		cause = fmt.Errorf("%w: %w", ErrUpstream, cause)
	}
	return &UpstreamError{Op: op, Status: status, Err: cause}
}

// NewRateLimitedError builds an UpstreamError classified as rate limited.
func NewRateLimitedError(op string, status int) *UpstreamError {
	return &UpstreamError{Op: op, Status: status, Err: ErrRateLimited}
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err was caused by an upstream block.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap makes every ValidationError match ErrInvalidRequest.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
