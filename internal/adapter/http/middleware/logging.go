package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
)

// DefaultSlowRequestThreshold marks requests that waited on the slow retry phase.
const DefaultSlowRequestThreshold = 5 * time.Second

// RequestLogger returns middleware that logs every HTTP request on completion.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithThreshold(log, DefaultSlowRequestThreshold)
}

// RequestLoggerWithThreshold is RequestLogger with a custom slow-request threshold.
// Requests slower than slow are flagged with slow=true.
func RequestLoggerWithThreshold(log *logger.Logger, slow time.Duration) echo.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// Let Echo's error handler write the response before logging it
				c.Error(err)
			}

			duration := time.Since(start)
			req := c.Request()
			res := c.Response()

			var event *zerolog.Event
			status := res.Status
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event.
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", duration.Milliseconds()).
				Bool("slow", slow > 0 && duration > slow).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return nil
		}
	}
}
