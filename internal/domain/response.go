package domain

import (
	"sort"
	"time"
)

// RouteSearchResult is the outcome of one route search over a window.
// It is built once per search and never mutated afterwards.
type RouteSearchResult struct {
	// Origin is the departure city code
	Origin string `json:"origin"`

	// Destination is the arrival city code
	Destination string `json:"destination"`

	// PromoCode is the promo code the search ran with
	PromoCode string `json:"promo_code,omitempty"`

	// Days holds one entry per date that had flights or prices, sorted by date
	Days []DayResult `json:"flights"`

	// TotalDaysSearched is the number of dates in the window
	TotalDaysSearched int `json:"total_days_searched"`

	// DaysWithData is len(Days)
	DaysWithData int `json:"days_with_data"`

	// IsComplete is false when any date could not be obtained after both fetch phases
	IsComplete bool `json:"is_complete"`

	// HasRetryData is true when the slow retry phase produced at least one successful call
	HasRetryData bool `json:"has_retry_data"`

	// UnresolvedDates lists the dates that were lost
	UnresolvedDates []Date `json:"unresolved_dates,omitempty"`

	// Currency is the currency the fares are quoted in
	Currency string `json:"currency"`
}

// NewRouteSearchResult assembles a result, sorting days by date.
func NewRouteSearchResult(window SearchWindow, totalDays int, days []DayResult, unresolved []Date, retryRecovered bool, currency string) *RouteSearchResult {
	if days == nil {
		days = []DayResult{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	sort.Slice(unresolved, func(i, j int) bool { return unresolved[i] < unresolved[j] })
	if currency == "" {
		currency = DefaultCurrency
	}

	return &RouteSearchResult{
		Origin:            window.Origin,
		Destination:       window.Destination,
		PromoCode:         window.PromoCode,
		Days:              days,
		TotalDaysSearched: totalDays,
		DaysWithData:      len(days),
		IsComplete:        len(unresolved) == 0,
		HasRetryData:      retryRecovered,
		UnresolvedDates:   unresolved,
		Currency:          currency,
	}
}

// Cheapest returns the day with the lowest valid fare and that fare.
// Ties keep the earliest date.
func (r *RouteSearchResult) Cheapest() (day DayResult, price float64, ok bool) {
	for i := range r.Days {
		p, has := r.Days[i].MinPrice()
		if !has {
			continue
		}
		if !ok || p < price {
			day, price, ok = r.Days[i], p, true
		}
	}
	return day, price, ok
}

// DestinationSummary is the reduction of one route search for an anywhere search.
type DestinationSummary struct {
	Origin               string    `json:"origin"`
	Destination          string    `json:"destination"`
	DestinationName      string    `json:"destination_name_ru,omitempty"`
	DestinationNameEn    string    `json:"destination_name_en,omitempty"`
	DestinationCountry   string    `json:"destination_country_ru,omitempty"`
	DestinationCountryEn string    `json:"destination_country_en,omitempty"`
	MinPrice             float64   `json:"min_price"`
	Currency             string    `json:"currency,omitempty"`
	CheapestDate         Date      `json:"cheapest_date,omitempty"`
	TotalDaysSearched    int       `json:"total_days_searched"`
	TotalDaysWithPrices  int       `json:"total_days_with_prices"`
	SearchPeriodMonths   int       `json:"search_period_months,omitempty"`
	SearchedAt           time.Time `json:"search_timestamp"`

	// Error is set only on the explanatory status entry of an anywhere
	// search that found no viable destinations.
	Error string `json:"error,omitempty"`
}

// HasPrice reports whether the summary carries a resolvable price.
func (s *DestinationSummary) HasPrice() bool {
	return s.Error == "" && !s.CheapestDate.IsZero()
}

// SortSummaries orders summaries by ascending MinPrice.
// Entries without a price sort last; ties are ordered by destination code.
func SortSummaries(summaries []DestinationSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := &summaries[i], &summaries[j]
		if a.HasPrice() != b.HasPrice() {
			return a.HasPrice()
		}
		if a.MinPrice != b.MinPrice {
			return a.MinPrice < b.MinPrice
		}
		return a.Destination < b.Destination
	})
}

// AnywhereResult is the response of an anywhere search.
type AnywhereResult struct {
	// Origin is the departure city code
	Origin string `json:"origin"`

	// SearchPeriodMonths is the window length in months
	SearchPeriodMonths int `json:"search_period_months"`

	// Destinations is sorted by ascending min price
	Destinations []DestinationSummary `json:"destinations"`

	// Metadata describes the fan-out
	Metadata AnywhereMetadata `json:"metadata"`
}

// AnywhereMetadata contains information about an anywhere search execution.
type AnywhereMetadata struct {
	// DestinationsQueried is the number of destinations searched
	DestinationsQueried int `json:"destinations_queried"`

	// DestinationsWithPrices is the number of destinations kept in the result
	DestinationsWithPrices int `json:"destinations_with_prices"`

	// FailedDestinations lists destinations whose search failed outright
	FailedDestinations []string `json:"failed_destinations,omitempty"`

	// SearchTimeMs is the total search duration in milliseconds
	SearchTimeMs int64 `json:"search_time_ms"`
}

// NewStatusResult builds the single-entry result returned when an origin has
// no viable destinations.
func NewStatusResult(origin string, months int, message string, at time.Time) *AnywhereResult {
	return &AnywhereResult{
		Origin:             origin,
		SearchPeriodMonths: months,
		Destinations: []DestinationSummary{{
			Origin:     origin,
			Error:      message,
			SearchedAt: at,
		}},
	}
}
