// Package middleware provides HTTP middleware for cross-cutting concerns.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
)

const (
	// RequestIDHeader is the HTTP header name for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength bounds client-supplied ids before they reach the logs.
	maxRequestIDLength = 128

	requestIDKey = "request_id"
	loggerKey    = "request_logger"
)

// RequestID returns middleware that generates or propagates request IDs.
// An incoming X-Request-ID header is reused when present and reasonably short;
// otherwise a new UUID is generated. The id is stored in the context, echoed in
// the response header, and bound to a request-scoped logger.
func RequestID(log *logger.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDLength {
				reqID = uuid.New().String()
			}

			c.Set(requestIDKey, reqID)
			c.Set(loggerKey, log.WithRequestID(reqID))
			c.Response().Header().Set(RequestIDHeader, reqID)

			return next(c)
		}
	}
}

// GetRequestID retrieves the request ID from the echo context.
// Returns an empty string if no request ID is set.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Logger returns the request-scoped logger, or fallback when the RequestID
// middleware did not run.
func Logger(c echo.Context, fallback *logger.Logger) *logger.Logger {
	if l, ok := c.Get(loggerKey).(*logger.Logger); ok {
		return l
	}
	if fallback == nil {
		return logger.Nop()
	}
	return fallback
}
