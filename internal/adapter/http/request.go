// Package http provides the HTTP handler layer for the fare search API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/farewatch/fare-tracker/internal/domain"
)

// MonthRequest holds the query parameters of a 30-day route search.
type MonthRequest struct {
	// Origin is the departure city code (e.g., "MOW")
	Origin string `query:"origin"`

	// Destination is the arrival city code (e.g., "AER")
	Destination string `query:"destination"`

	// PromoCode is an optional promo code passed through to the booking API
	PromoCode string `query:"promo_code"`
}

// PeriodRequest holds the query parameters of a multi-month route search.
type PeriodRequest struct {
	Origin      string `query:"origin"`
	Destination string `query:"destination"`
	PromoCode   string `query:"promo_code"`

	// Months is the window length, 1 to 6 (default 1)
	Months string `query:"months"`

	months int
}

// DateRequest holds the query parameters of a single-date route search.
type DateRequest struct {
	Origin      string `query:"origin"`
	Destination string `query:"destination"`
	PromoCode   string `query:"promo_code"`

	// Date is the departure date in YYYY-MM-DD format
	Date string `query:"date"`

	date domain.Date
}

// AnywhereRequest holds the query parameters of an anywhere search.
type AnywhereRequest struct {
	Origin    string `query:"origin"`
	PromoCode string `query:"promo_code"`

	// Months is the window length, 1 to 6 (default 1)
	Months string `query:"months"`

	// MaxPrice drops destinations whose cheapest fare is above it
	MaxPrice string `query:"max_price"`

	months   int
	maxPrice *float64
}

// Validation regex patterns.
var (
	cityCodePattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	promoCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// orNil returns errs as an error, or nil when it holds nothing.
func (v *ValidationErrors) orNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Validate validates and normalizes the request.
func (r *MonthRequest) Validate() error {
	errs := &ValidationErrors{}
	validateRoute(errs, &r.Origin, &r.Destination)
	validatePromoCode(errs, &r.PromoCode)
	return errs.orNil()
}

// Validate validates and normalizes the request.
func (r *PeriodRequest) Validate() error {
	errs := &ValidationErrors{}
	validateRoute(errs, &r.Origin, &r.Destination)
	validatePromoCode(errs, &r.PromoCode)
	r.months = parseMonths(errs, r.Months)
	return errs.orNil()
}

// Validate validates and normalizes the request.
// Whether the date lies in the past is decided by the use case, which owns "today".
func (r *DateRequest) Validate() error {
	errs := &ValidationErrors{}
	validateRoute(errs, &r.Origin, &r.Destination)
	validatePromoCode(errs, &r.PromoCode)

	switch {
	case r.Date == "":
		errs.Add("date", "date is required")
	case !datePattern.MatchString(r.Date):
		errs.Add("date", "date must be in YYYY-MM-DD format")
	default:
		d, err := domain.ParseDate(r.Date)
		if err != nil {
			errs.Add("date", "date is not a valid date")
			break
		}
		r.date = d
	}

	return errs.orNil()
}

// Validate validates and normalizes the request.
func (r *AnywhereRequest) Validate() error {
	errs := &ValidationErrors{}
	validateCityCode(errs, "origin", &r.Origin)
	validatePromoCode(errs, &r.PromoCode)
	r.months = parseMonths(errs, r.Months)

	if r.MaxPrice != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(r.MaxPrice), 64)
		switch {
		case err != nil:
			errs.Add("max_price", "max_price must be a number")
		case price < 0:
			errs.Add("max_price", "max_price must not be negative")
		default:
			r.maxPrice = &price
		}
	}

	return errs.orNil()
}

func validateRoute(errs *ValidationErrors, origin, destination *string) {
	okOrigin := validateCityCode(errs, "origin", origin)
	okDestination := validateCityCode(errs, "destination", destination)
	if okOrigin && okDestination && *origin == *destination {
		errs.Add("destination", "origin and destination must be different")
	}
}

// validateCityCode normalizes *code to upper case and reports whether it is valid.
func validateCityCode(errs *ValidationErrors, field string, code *string) bool {
	normalized := domain.NormalizeCityCode(*code)
	if normalized == "" {
		errs.Add(field, field+" is required")
		return false
	}
	if !cityCodePattern.MatchString(normalized) {
		errs.Add(field, field+" must be a valid 3-letter city code")
		return false
	}
	*code = normalized
	return true
}

func validatePromoCode(errs *ValidationErrors, code *string) {
	*code = strings.TrimSpace(*code)
	if *code != "" && !promoCodePattern.MatchString(*code) {
		errs.Add("promo_code", "promo_code must be up to 32 letters, digits, '-' or '_'")
	}
}

// parseMonths parses the months parameter, defaulting to 1 when absent.
func parseMonths(errs *ValidationErrors, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add("months", "months must be a whole number")
		return 0
	}
	if months < 1 || months > domain.MaxMonthsAhead {
		errs.Add("months", fmt.Sprintf("months must be between 1 and %d", domain.MaxMonthsAhead))
		return 0
	}
	return months
}
