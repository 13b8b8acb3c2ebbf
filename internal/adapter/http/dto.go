package http

import (
	"github.com/farewatch/fare-tracker/internal/domain"
)

// RouteSearchResponse is the body of every route search endpoint.
// It carries the full search result plus the cheapest fare found in it.
type RouteSearchResponse struct {
	*domain.RouteSearchResult

	// MinPrice is the cheapest fare across all days, absent when no day has a price
	MinPrice *float64 `json:"min_price,omitempty" example:"3499"`

	// CheapestDate is the date MinPrice departs on
	CheapestDate domain.Date `json:"cheapest_date,omitempty" example:"2025-03-14"`
}

// CitiesResponse is the body of the destinations endpoint.
type CitiesResponse struct {
	// Origin is the city the destinations are served from
	Origin string `json:"origin" example:"MOW"`

	// Count is len(Destinations)
	Count int `json:"count" example:"42"`

	// Destinations lists the reachable cities in booking API order
	Destinations []domain.City `json:"destinations"`
}
