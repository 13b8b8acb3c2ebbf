// Package integration provides helpers and integration tests for the fare tracker.
// Integration tests run the full stack: HTTP handlers and middleware, the search
// use cases, the booking API client against a fake upstream, and a real cache.
package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	httpAdapter "github.com/farewatch/fare-tracker/internal/adapter/http"
	"github.com/farewatch/fare-tracker/internal/adapter/http/middleware"
	"github.com/farewatch/fare-tracker/internal/adapter/pobeda"
	"github.com/farewatch/fare-tracker/internal/adapter/store"
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
	"github.com/farewatch/fare-tracker/internal/usecase"
	"github.com/farewatch/fare-tracker/test/mock"
	"github.com/farewatch/fare-tracker/test/testutil"
)

// Now is the fixed wall-clock time every test server runs at.
// It is 12:00 in Moscow, so "today" is 2025-03-10.
var Now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// Today is the first date of every search window.
const Today = domain.Date("2025-03-10")

// Options tunes the stack built by NewTestServer.
type Options struct {
	// FetchConcurrency caps in-flight upstream calls per search (default 3)
	FetchConcurrency int

	// AnywhereConcurrency caps concurrent destination searches (default 4)
	AnywhereConcurrency int

	// Cache overrides the default in-memory cache
	Cache domain.FareCache

	// CacheTTL is the in-memory cache TTL (default 1h)
	CacheTTL time.Duration
}

// TestServer wraps the fully wired stack and provides helper methods for integration testing.
type TestServer struct {
	Echo     *echo.Echo
	Upstream *mock.Upstream
	Client   *pobeda.Client
	Cache    domain.FareCache
	Clock    *timeutil.MockClock
	Pauses   *testutil.PauseRecorder
	Routes   *usecase.RouteSearcher
	Anywhere *usecase.AnywhereSearcher
	Logs     *testutil.SyncBuffer
}

// NewTestServer wires every layer against upstream. Retry pauses are recorded
// instead of waited.
func NewTestServer(t *testing.T, upstream *mock.Upstream, opts Options) *TestServer {
	t.Helper()

	if opts.FetchConcurrency == 0 {
		opts.FetchConcurrency = usecase.DefaultFetchConcurrency
	}
	if opts.AnywhereConcurrency == 0 {
		opts.AnywhereConcurrency = usecase.DefaultAnywhereConcurrency
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}

	log, logs := testutil.NewBufferLogger()
	clock := timeutil.NewMockClock(Now)
	pauses := &testutil.PauseRecorder{}

	cache := opts.Cache
	if cache == nil {
		cache = store.NewMemoryStore(opts.CacheTTL, clock)
	}

	client := pobeda.NewClient(pobeda.Config{
		BaseURL:        upstream.URL(),
		RequestTimeout: 5 * time.Second,
		DiscoveryRetry: retry.Config{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1,
			RetryIf:      retry.SkipPermanent,
		},
	}, nil, log)

	cfg := usecase.Config{
		FetchConcurrency:    opts.FetchConcurrency,
		AnywhereConcurrency: opts.AnywhereConcurrency,
		Location:            timeutil.MustGetLocation(timeutil.MSK),
	}
	fetcher := usecase.NewFetcher(client, cfg.FetchConcurrency, log)
	retrier := usecase.NewRetrier(fetcher, usecase.DefaultRetryMinDelay, usecase.DefaultRetryMaxDelay, log,
		usecase.WithSleeper(pauses.Sleep))
	routes := usecase.NewRouteSearcher(cache, fetcher, retrier, cfg, log, usecase.WithClock(clock))
	anywhere := usecase.NewAnywhereSearcher(client, routes, cfg, log, usecase.WithClock(clock))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.Setup(e, log, middleware.DefaultRecoveryConfig())
	httpAdapter.RegisterRoutes(e, httpAdapter.NewFareHandler(routes, anywhere, client, log))

	return &TestServer{
		Echo:     e,
		Upstream: upstream,
		Client:   client,
		Cache:    cache,
		Clock:    clock,
		Pauses:   pauses,
		Routes:   routes,
		Anywhere: anywhere,
		Logs:     logs,
	}
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Get executes a GET request against the server and returns the response.
func (ts *TestServer) Get(path string) Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, req)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}
