package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// cityCodeRegex matches valid city codes (3 uppercase letters).
var cityCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// noPromo is the cache key segment used when no promo code is set.
const noPromo = "-"

// Route is an ordered origin/destination pair.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// NewRoute builds a Route from city codes, normalizing case.
func NewRoute(origin, destination string) Route {
	return Route{
		Origin:      NormalizeCityCode(origin),
		Destination: NormalizeCityCode(destination),
	}
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return r.Origin + "-" + r.Destination
}

// Validate checks both codes and that they differ.
func (r Route) Validate() error {
	if err := ValidateCityCode("origin", r.Origin); err != nil {
		return err
	}
	if err := ValidateCityCode("destination", r.Destination); err != nil {
		return err
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("%w: origin and destination must be different", ErrInvalidRequest)
	}
	return nil
}

// Key returns the SearchKey for date and promo code on this route.
func (r Route) Key(date Date, promoCode string) SearchKey {
	return SearchKey{
		Origin:      r.Origin,
		Destination: r.Destination,
		Date:        date,
		PromoCode:   promoCode,
	}
}

// SearchKey identifies one fetchable and cacheable unit.
type SearchKey struct {
	Origin      string
	Destination string
	Date        Date
	PromoCode   string
}

// Route returns the key's route.
func (k SearchKey) Route() Route {
	return Route{Origin: k.Origin, Destination: k.Destination}
}

// String returns a stable identifier usable as a cache or coalescing key.
func (k SearchKey) String() string {
	promo := k.PromoCode
	if promo == "" {
		promo = noPromo
	}
	return k.Origin + ":" + k.Destination + ":" + k.Date.String() + ":" + promo
}

// SearchWindow is the input of a single route search.
type SearchWindow struct {
	Route
	Start     Date
	End       Date
	PromoCode string
}

// Dates expands the window into its inclusive day sequence.
func (w SearchWindow) Dates() []Date {
	return DateRange(w.Start, w.End)
}

// Validate checks the route and date bounds.
func (w SearchWindow) Validate() error {
	if err := w.Route.Validate(); err != nil {
		return err
	}
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: window start and end are required", ErrInvalidRequest)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: window end %s is before start %s", ErrInvalidRequest, w.End, w.Start)
	}
	return nil
}

// NewMonthWindow covers the fixed 30 dates starting at today.
func NewMonthWindow(route Route, today Date, promoCode string) SearchWindow {
	return SearchWindow{Route: route, Start: today, End: today.AddDays(MonthSearchDays - 1), PromoCode: promoCode}
}

// NewPeriodWindow covers today..today+30*months.
func NewPeriodWindow(route Route, today Date, months int, promoCode string) SearchWindow {
	return SearchWindow{Route: route, Start: today, End: today.AddDays(DaysPerMonth * months), PromoCode: promoCode}
}

// NewWeekWindow covers the 7 dates starting at today.
func NewWeekWindow(route Route, today Date, promoCode string) SearchWindow {
	return SearchWindow{Route: route, Start: today, End: today.AddDays(WeekSearchDays - 1), PromoCode: promoCode}
}

// NewDateWindow covers a single date.
func NewDateWindow(route Route, date Date, promoCode string) SearchWindow {
	return SearchWindow{Route: route, Start: date, End: date, PromoCode: promoCode}
}

// ValidateMonths checks a months-ahead value.
func ValidateMonths(months int) error {
	if months < 1 || months > MaxMonthsAhead {
		return fmt.Errorf("%w: months must be between 1 and %d, got %d", ErrInvalidRequest, MaxMonthsAhead, months)
	}
	return nil
}

// NormalizeCityCode trims and upper-cases a city code.
func NormalizeCityCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCityCode checks that code is a 3-letter upper-case city code.
func ValidateCityCode(field, code string) error {
	if code == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	if !cityCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %s must be a valid 3-letter city code, got %q", ErrInvalidRequest, field, code)
	}
	return nil
}

// City is a destination returned by the discovery call.
type City struct {
	Code      string `json:"code"`
	NameRu    string `json:"name_ru,omitempty"`
	NameEn    string `json:"name_en,omitempty"`
	CountryRu string `json:"country_ru,omitempty"`
	CountryEn string `json:"country_en,omitempty"`
}
