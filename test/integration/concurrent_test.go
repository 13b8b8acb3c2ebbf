package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/farewatch/fare-tracker/internal/adapter/http"
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/test/mock"
)

func TestRouteSearch_RespectsFetchConcurrency(t *testing.T) {
	for _, limit := range []int{1, 3, 5} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			upstream := mock.NewUpstream().WithDelay(10 * time.Millisecond)
			defer upstream.Close()
			ts := NewTestServer(t, upstream, Options{FetchConcurrency: limit})

			decodeRoute(t, ts.Get("/api/v1/flights/month?origin=MOW&destination=AER"))

			assert.Equal(t, 30, upstream.SearchCalls())
			assert.LessOrEqual(t, upstream.MaxInFlight(), limit)
		})
	}
}

func TestRouteSearch_ParallelFetchIsFasterThanSequential(t *testing.T) {
	upstream := mock.NewUpstream().WithDelay(20 * time.Millisecond)
	defer upstream.Close()
	ts := NewTestServer(t, upstream, Options{FetchConcurrency: 5})

	start := time.Now()
	decodeRoute(t, ts.Get("/api/v1/flights/month?origin=MOW&destination=AER"))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 30*20*time.Millisecond, "30 dates are not fetched one by one")
	assert.Greater(t, upstream.MaxInFlight(), 1)
}

func TestRouteSearch_ConcurrentIdenticalRequests(t *testing.T) {
	upstream := mock.NewUpstream().
		WithDelay(20 * time.Millisecond).
		WithFare("MOW", "AER", "2025-03-21", 2500)
	defer upstream.Close()
	ts := NewTestServer(t, upstream, Options{})

	const callers = 5
	start := make(chan struct{})
	results := make([]Response, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = ts.Get("/api/v1/flights/month?origin=MOW&destination=AER")
		}(i)
	}
	close(start)
	wg.Wait()

	for _, resp := range results {
		require.Equal(t, http.StatusOK, resp.Code)
		var body httpAdapter.RouteSearchResponse
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.True(t, body.IsComplete)
		require.NotNil(t, body.MinPrice)
		assert.Equal(t, 2500.0, *body.MinPrice)
		assert.Equal(t, domain.Date("2025-03-21"), body.CheapestDate)
	}

	assert.Less(t, upstream.SearchCalls(), callers*30, "in-flight calls for the same date are shared")
}

func TestRouteSearch_ConcurrentDifferentRoutes(t *testing.T) {
	upstream := mock.NewUpstream()
	destinations := []string{"AER", "LED", "KZN", "SVX", "OVB"}
	for i, dest := range destinations {
		upstream.WithFare("MOW", dest, Today.AddDays(i), float64(1000*(i+1)))
	}
	defer upstream.Close()
	ts := NewTestServer(t, upstream, Options{})

	responses := make([]Response, len(destinations))
	var wg sync.WaitGroup
	for i, dest := range destinations {
		wg.Add(1)
		go func(i int, dest string) {
			defer wg.Done()
			responses[i] = ts.Get("/api/v1/flights/month?origin=MOW&destination=" + dest)
		}(i, dest)
	}
	wg.Wait()

	for i, dest := range destinations {
		body := decodeRoute(t, responses[i])
		assert.Equal(t, dest, body.Destination)
		require.NotNil(t, body.MinPrice)
		assert.Equal(t, float64(1000*(i+1)), *body.MinPrice)
		assert.Equal(t, Today.AddDays(i), body.CheapestDate)
	}

	assert.Equal(t, len(destinations)*30, upstream.SearchCalls(), "routes never share cache entries")
}

func TestAnywhereSearch_RespectsConcurrencyBounds(t *testing.T) {
	upstream := mock.NewUpstream().
		WithDelay(5*time.Millisecond).
		WithDestinations("MOW", "AER", "LED", "KZN", "SVX", "OVB", "UFA").
		WithFare("MOW", "UFA", "2025-03-30", 999)
	defer upstream.Close()
	ts := NewTestServer(t, upstream, Options{FetchConcurrency: 2, AnywhereConcurrency: 2})

	resp := ts.Get("/api/v1/flights/anywhere?origin=MOW")
	require.Equal(t, http.StatusOK, resp.Code)

	var result domain.AnywhereResult
	require.NoError(t, json.Unmarshal(resp.Body, &result))
	require.Len(t, result.Destinations, 1)
	assert.Equal(t, "UFA", result.Destinations[0].Destination)
	assert.Equal(t, 6, result.Metadata.DestinationsQueried)

	assert.Equal(t, 6*31, upstream.SearchCalls())
	assert.LessOrEqual(t, upstream.MaxInFlight(), 2*2, "destinations x per-search cap")
}
