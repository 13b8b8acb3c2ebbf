package domain

import "context"

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

// FlightSource issues one booking API search for exactly one date.
// A blocked request must return an error matching ErrRateLimited; every
// other failure must match ErrUpstream.
type FlightSource interface {
	SearchDay(ctx context.Context, key SearchKey) (*DayResult, error)
}

// DestinationDirectory lists the cities reachable from an origin.
// An empty list is a valid answer meaning "no service from this origin".
type DestinationDirectory interface {
	Destinations(ctx context.Context, origin string) ([]City, error)
}

// FareCache is the TTL-governed store of DayResults keyed by SearchKey.
type FareCache interface {
	// BatchGet returns present, unexpired entries for dates on route.
	// Missing dates are omitted from the map; a miss is never an error.
	BatchGet(ctx context.Context, route Route, dates []Date, promoCode string) (map[Date]DayResult, error)

	// Put upserts the payload for key, resetting its expiry.
	Put(ctx context.Context, key SearchKey, payload DayResult) error

	// BatchPut stores every day independently; one failure does not block the rest.
	BatchPut(ctx context.Context, route Route, promoCode string, days []DayResult) error
}
