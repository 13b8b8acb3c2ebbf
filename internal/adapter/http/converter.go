package http

import (
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/usecase"
)

// ToRoute builds the domain route of a validated request.
func ToRoute(origin, destination string) domain.Route {
	return domain.NewRoute(origin, destination)
}

// ToAnywhereQuery converts a validated AnywhereRequest to a usecase.AnywhereQuery.
func ToAnywhereQuery(req *AnywhereRequest) usecase.AnywhereQuery {
	return usecase.AnywhereQuery{
		Origin:      req.Origin,
		MonthsAhead: req.months,
		PromoCode:   req.PromoCode,
		MaxPrice:    req.maxPrice,
	}
}

// ToRouteSearchResponse wraps a search result with its cheapest fare.
func ToRouteSearchResponse(result *domain.RouteSearchResult) RouteSearchResponse {
	resp := RouteSearchResponse{RouteSearchResult: result}
	if day, price, ok := result.Cheapest(); ok {
		resp.MinPrice = &price
		resp.CheapestDate = day.Date
	}
	return resp
}

// ToCitiesResponse converts a destination list to its response body.
func ToCitiesResponse(origin string, cities []domain.City) CitiesResponse {
	if cities == nil {
		cities = []domain.City{}
	}
	return CitiesResponse{
		Origin:       origin,
		Count:        len(cities),
		Destinations: cities,
	}
}
