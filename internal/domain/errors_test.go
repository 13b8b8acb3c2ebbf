package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamError(t *testing.T) {
	tests := []struct {
		name            string
		err             *UpstreamError
		wantContains    []string
		wantRateLimited bool
		wantUpstream    bool
	}{
		{
			name:            "blocked status is rate limited",
			err:             NewRateLimitedError("search", 403),
			wantContains:    []string{"search", "403"},
			wantRateLimited: true,
		},
		{
			name:         "server error is a generic upstream failure",
			err:          NewUpstreamError("search", 502, nil),
			wantContains: []string{"502", "upstream failure"},
			wantUpstream: true,
		},
		{
			name:         "transport error keeps its cause",
			err:          NewUpstreamError("destinations", 0, errors.New("connection reset")),
			wantContains: []string{"destinations", "connection reset"},
			wantUpstream: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.wantContains {
				assert.Contains(t, tt.err.Error(), want)
			}
			assert.Equal(t, tt.wantRateLimited, IsRateLimited(tt.err))
			assert.Equal(t, tt.wantUpstream, errors.Is(tt.err, ErrUpstream))

			var target *UpstreamError
			assert.True(t, errors.As(fmt.Errorf("wrapped: %w", tt.err), &target))
		})
	}
}

func TestNewUpstreamError_DoesNotDoubleWrap(t *testing.T) {
	err := NewUpstreamError("search", 500, ErrUpstream)
	assert.Equal(t, ErrUpstream, err.Err)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("months", "must be between 1 and 6")
	assert.Equal(t, "months: must be between 1 and 6", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}
