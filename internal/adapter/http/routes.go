package http

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes registers all fare search API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *FareHandler) {
	RegisterRoutesWithMiddleware(e, h)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware on the
// versioned API group. Health and swagger stay outside it.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *FareHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := e.Group("/api/v1", middleware...)

	flights := api.Group("/flights")
	flights.GET("/month", h.SearchMonth)
	flights.GET("/period", h.SearchPeriod)
	flights.GET("/date", h.SearchDate)
	flights.GET("/anywhere", h.SearchAnywhere)

	cities := api.Group("/cities")
	cities.GET("/:code/destinations", h.Destinations)
}
