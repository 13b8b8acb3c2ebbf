package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/farewatch/fare-tracker/internal/adapter/store"
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

var (
	testNow   = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	testToday = domain.MustParseDate("2025-03-10")
	mowAER    = domain.NewRoute("MOW", "AER")
)

// pricedDay builds a successful upstream answer with a single fare.
func pricedDay(key domain.SearchKey, price float64) *domain.DayResult {
	return &domain.DayResult{
		Date:        key.Date,
		Origin:      key.Origin,
		Destination: key.Destination,
		PromoCode:   key.PromoCode,
		Flights:     []domain.FlightGroup{{ChainID: "c1", Flights: []domain.FlightLeg{{RaceNumber: "DP 100"}}}},
		Prices:      []domain.PriceGroup{{"c1": {{Brand: "basic", Price: domain.NewAmount(price), Available: 9}}}},
	}
}

// emptyDay is a successful answer for a date without flights.
func emptyDay(key domain.SearchKey) *domain.DayResult {
	return &domain.DayResult{Date: key.Date, Origin: key.Origin, Destination: key.Destination}
}

func blockedErr() error {
	return domain.NewRateLimitedError("search", 403)
}

func serverErr() error {
	return domain.NewUpstreamError("search", 500, nil)
}

// recordingSleeper records requested pauses without waiting.
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.pauses = append(r.pauses, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordingSleeper) Pauses() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.pauses...)
}

// callLog counts upstream calls per key and overall.
type callLog struct {
	mu    sync.Mutex
	calls map[string]int
	order []domain.SearchKey
}

func newCallLog() *callLog {
	return &callLog{calls: make(map[string]int)}
}

// record registers a call and returns how many times key has been requested.
func (c *callLog) record(key domain.SearchKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[key.String()]++
	c.order = append(c.order, key)
	return c.calls[key.String()]
}

func (c *callLog) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func (c *callLog) keys() []domain.SearchKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.SearchKey(nil), c.order...)
}

// harness wires a RouteSearcher over a mock source and an in-memory cache.
type harness struct {
	source   *domain.MockFlightSource
	cache    *store.MemoryStore
	clock    *timeutil.MockClock
	sleeper  *recordingSleeper
	calls    *callLog
	searcher *RouteSearcher
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		source:  domain.NewMockFlightSource(ctrl),
		clock:   timeutil.NewMockClock(testNow),
		sleeper: &recordingSleeper{},
		calls:   newCallLog(),
	}
	h.cache = store.NewMemoryStore(time.Hour, h.clock)
	h.searcher = newSearcher(h.source, h.cache, h.clock, h.sleeper, cfg)
	return h
}

func newSearcher(source domain.FlightSource, cache domain.FareCache, clock timeutil.Clock, sleeper *recordingSleeper, cfg Config) *RouteSearcher {
	cfg = cfg.withDefaults()
	fetcher := NewFetcher(source, cfg.FetchConcurrency, nil)
	retrier := NewRetrier(fetcher, cfg.RetryMinDelay, cfg.RetryMaxDelay, nil, WithSleeper(sleeper.Sleep))
	return NewRouteSearcher(cache, fetcher, retrier, cfg, nil, WithClock(clock))
}

// respond makes every SearchDay call go through fn, counting calls.
func (h *harness) respond(fn func(key domain.SearchKey, attempt int) (*domain.DayResult, error)) {
	h.source.EXPECT().SearchDay(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key domain.SearchKey) (*domain.DayResult, error) {
			return fn(key, h.calls.record(key))
		},
	).AnyTimes()
}

func fixedClock() *timeutil.MockClock {
	return timeutil.NewMockClock(testNow)
}

func datesOf(days []domain.DayResult) []domain.Date {
	out := make([]domain.Date, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}
