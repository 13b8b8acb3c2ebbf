package store

import (
	"context"
	"errors"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// cleanupInterval is how often go-cache purges records it considers expired.
const cleanupInterval = 10 * time.Minute

// MemoryStore is a process-local FareCache backed by go-cache.
// It is safe for concurrent use; concurrent writes to one key are last-write-wins.
type MemoryStore struct {
	items *cache.Cache
	ttl   time.Duration
	clock timeutil.Clock
}

// NewMemoryStore creates a MemoryStore. A nil clock uses the system time.
func NewMemoryStore(ttl time.Duration, clock timeutil.Clock) *MemoryStore {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	ttl = normalizeTTL(ttl)

	return &MemoryStore{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
		clock: clock,
	}
}

// BatchGet returns the unexpired records for dates on route.
func (s *MemoryStore) BatchGet(ctx context.Context, route domain.Route, dates []domain.Date, promoCode string) (map[domain.Date]domain.DayResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	found := make(map[domain.Date]domain.DayResult, len(dates))
	for _, date := range dates {
		obj, ok := s.items.Get(cacheKey(route.Key(date, promoCode)))
		if !ok {
			continue
		}
		rec, ok := obj.(record)
		if !ok || rec.expired(now) {
			continue
		}
		found[date] = rec.Payload
	}
	return found, nil
}

// Put stores payload under key with a fresh expiry.
func (s *MemoryStore) Put(ctx context.Context, key domain.SearchKey, payload domain.DayResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.items.Set(cacheKey(key), newRecord(payload, s.clock.Now(), s.ttl), s.ttl)
	return nil
}

// BatchPut stores every day independently.
func (s *MemoryStore) BatchPut(ctx context.Context, route domain.Route, promoCode string, days []domain.DayResult) error {
	var errs []error
	for _, day := range days {
		if err := s.Put(ctx, route.Key(day.Date, promoCode), day); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of records held, including ones not yet purged.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

var _ domain.FareCache = (*MemoryStore)(nil)
