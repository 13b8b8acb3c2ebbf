package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEcho() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := setupEcho()

	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
}

func TestOK(t *testing.T) {
	c, rec := setupEcho()
	payload := struct {
		Origin string `json:"origin"`
		Days   int    `json:"days"`
	}{Origin: "MOW", Days: 30}

	require.NoError(t, OK(c, payload))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"origin":"MOW","days":30}`, rec.Body.String())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c echo.Context) error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "bad request",
			write:      func(c echo.Context) error { return BadRequest(c, "months must be a number") },
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidRequest,
			wantMsg:    "months must be a number",
		},
		{
			name:       "validation message",
			write:      func(c echo.Context) error { return ValidationErrorWithMessage(c, "origin is required") },
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidationError,
			wantMsg:    "origin is required",
		},
		{
			name:       "service unavailable",
			write:      ServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeServiceUnavailable,
			wantMsg:    MsgServiceUnavailable,
		},
		{
			name:       "bad gateway",
			write:      BadGateway,
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeUpstreamError,
			wantMsg:    MsgUpstreamError,
		},
		{
			name:       "gateway timeout",
			write:      GatewayTimeout,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   CodeTimeout,
			wantMsg:    MsgTimeout,
		},
		{
			name:       "request cancelled",
			write:      RequestCancelled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   CodeTimeout,
			wantMsg:    MsgRequestCancelled,
		},
		{
			name:       "internal error",
			write:      InternalServerError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternalError,
			wantMsg:    MsgInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupEcho()

			require.NoError(t, tt.write(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var result ErrorDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.wantMsg, result.Message)
			assert.Empty(t, result.Details)
		})
	}
}

func TestValidationError(t *testing.T) {
	c, rec := setupEcho()
	details := map[string]string{
		"origin": "origin must be a valid 3-letter city code",
		"months": "months must be between 1 and 6",
	}

	require.NoError(t, ValidationError(c, details))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, CodeValidationError, result.Code)
	assert.Equal(t, MsgValidationFailed, result.Message)
	assert.Equal(t, details, result.Details)
}
