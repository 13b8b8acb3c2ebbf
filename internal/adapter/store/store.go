// Package store implements domain.FareCache over an in-process cache and Redis.
//
// Both backends persist an envelope holding the DayResult and its absolute
// expiry. The expiry is checked against an injected clock on every read, so a
// record is never served past its TTL even if the backend has not evicted it yet.
package store

import (
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
)

// DefaultTTL is how long a fetched day stays fresh.
const DefaultTTL = 6 * time.Hour

// keyPrefix namespaces fare records in shared backends.
const keyPrefix = "fare:"

// record is the stored form of a cached DayResult.
type record struct {
	Payload   domain.DayResult `json:"payload"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func newRecord(payload domain.DayResult, now time.Time, ttl time.Duration) record {
	return record{Payload: payload, ExpiresAt: now.Add(ttl)}
}

// expired reports whether the record is no longer servable at now.
func (r record) expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

func cacheKey(key domain.SearchKey) string {
	return keyPrefix + key.String()
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
