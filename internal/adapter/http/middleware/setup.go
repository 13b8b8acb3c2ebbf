package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
)

// Setup registers all middleware on the Echo instance in the correct order.
// The order is important:
//  1. RequestID - First, so every later log line carries the request ID
//  2. RequestLogger - Second, logs all requests including recovered panics
//  3. Recover - Third, catches panics and returns 500 (wraps handlers)
//
// This function should be called before registering routes.
func Setup(e *echo.Echo, log *logger.Logger, recovery RecoveryConfig) {
	e.Use(RequestID(log))
	e.Use(RequestLogger(log))
	e.Use(RecoverWithConfig(log, recovery))
}
