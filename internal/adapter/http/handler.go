package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/farewatch/fare-tracker/internal/adapter/http/middleware"
	"github.com/farewatch/fare-tracker/internal/adapter/http/response"
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/usecase"
)

// FareHandler handles HTTP requests for fare search endpoints.
type FareHandler struct {
	routes    usecase.RouteSearchUseCase
	anywhere  usecase.AnywhereSearchUseCase
	directory domain.DestinationDirectory
	log       *logger.Logger
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(routes usecase.RouteSearchUseCase, anywhere usecase.AnywhereSearchUseCase, directory domain.DestinationDirectory, log *logger.Logger) *FareHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FareHandler{
		routes:    routes,
		anywhere:  anywhere,
		directory: directory,
		log:       log,
	}
}

// SearchMonth handles GET /api/v1/flights/month
//
// @Summary Search a route for the next 30 days
// @Description Returns every day with flights or prices in the 30 days starting today (Moscow time)
// @Tags flights
// @Produce json
// @Param origin query string true "Origin city code" example(MOW)
// @Param destination query string true "Destination city code" example(AER)
// @Param promo_code query string false "Promo code"
// @Success 200 {object} RouteSearchResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/flights/month [get]
func (h *FareHandler) SearchMonth(c echo.Context) error {
	var req MonthRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, response.MsgInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.routes.SearchMonth(c.Request().Context(), ToRoute(req.Origin, req.Destination), req.PromoCode)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToRouteSearchResponse(result))
}

// SearchPeriod handles GET /api/v1/flights/period
//
// @Summary Search a route over several months
// @Description Searches today through today plus 30 days per month requested
// @Tags flights
// @Produce json
// @Param origin query string true "Origin city code" example(MOW)
// @Param destination query string true "Destination city code" example(AER)
// @Param months query int false "Months ahead, 1 to 6" default(1)
// @Param promo_code query string false "Promo code"
// @Success 200 {object} RouteSearchResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/flights/period [get]
func (h *FareHandler) SearchPeriod(c echo.Context) error {
	var req PeriodRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, response.MsgInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.routes.SearchPeriod(c.Request().Context(), ToRoute(req.Origin, req.Destination), req.months, req.PromoCode)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToRouteSearchResponse(result))
}

// SearchDate handles GET /api/v1/flights/date
//
// @Summary Search a route on one date
// @Tags flights
// @Produce json
// @Param origin query string true "Origin city code" example(MOW)
// @Param destination query string true "Destination city code" example(AER)
// @Param date query string true "Departure date (YYYY-MM-DD), not in the past" example(2025-03-14)
// @Param promo_code query string false "Promo code"
// @Success 200 {object} RouteSearchResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/flights/date [get]
func (h *FareHandler) SearchDate(c echo.Context) error {
	var req DateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, response.MsgInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.routes.SearchDate(c.Request().Context(), ToRoute(req.Origin, req.Destination), req.date, req.PromoCode)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToRouteSearchResponse(result))
}

// SearchAnywhere handles GET /api/v1/flights/anywhere
//
// @Summary Find the cheapest destinations from an origin
// @Description Searches every destination served from origin and ranks them by cheapest fare.
// @Description When no destination can be searched the result holds a single entry explaining why.
// @Tags flights
// @Produce json
// @Param origin query string true "Origin city code" example(MOW)
// @Param months query int false "Months ahead, 1 to 6" default(1)
// @Param max_price query number false "Drop destinations whose cheapest fare is above this"
// @Param promo_code query string false "Promo code"
// @Success 200 {object} domain.AnywhereResult
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/flights/anywhere [get]
func (h *FareHandler) SearchAnywhere(c echo.Context) error {
	var req AnywhereRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, response.MsgInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.anywhere.SearchAnywhere(c.Request().Context(), ToAnywhereQuery(&req))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, result)
}

// Destinations handles GET /api/v1/cities/:code/destinations
//
// @Summary List destinations served from a city
// @Tags cities
// @Produce json
// @Param code path string true "Origin city code" example(MOW)
// @Success 200 {object} CitiesResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 502 {object} response.ErrorDetail "Booking API failure"
// @Failure 503 {object} response.ErrorDetail "Booking API rate limiting"
// @Router /api/v1/cities/{code}/destinations [get]
func (h *FareHandler) Destinations(c echo.Context) error {
	code := c.Param("code")
	errs := &ValidationErrors{}
	if !validateCityCode(errs, "code", &code) {
		return h.handleValidationError(c, errs)
	}

	cities, err := h.directory.Destinations(c.Request().Context(), code)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToCitiesResponse(code, cities))
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *FareHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return response.ValidationError(c, map[string]string{fieldErr.Field: fieldErr.Message})
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *FareHandler) handleError(c echo.Context, err error) error {
	// Check for invalid request (domain validation)
	if errors.Is(err, domain.ErrInvalidRequest) {
		return h.handleValidationError(c, err)
	}

	// Upstream explicitly blocked us
	if domain.IsRateLimited(err) {
		return response.ServiceUnavailable(c)
	}

	if errors.Is(err, domain.ErrUpstream) {
		middleware.Logger(c, h.log).Warn().Err(err).Msg("booking API call failed")
		return response.BadGateway(c)
	}

	// Check for context deadline exceeded (timeout)
	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	// Check for context cancelled
	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	middleware.Logger(c, h.log).Error().Err(err).Msg("unexpected error")
	return response.InternalServerError(c)
}

// Health handles GET /health
// Simple health check endpoint.
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *FareHandler) Health(c echo.Context) error {
	return response.Health(c)
}
