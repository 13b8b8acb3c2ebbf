package pobeda

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
)

const searchBody = `{
	"flights": [{"chainId": "c1", "flights": [{"racenumber": "DP 405", "originport": "VKO", "destinationport": "AER", "departuretime": "07:40", "arrivaltime": "10:20"}]}],
	"prices": [{"c1": [{"brand": "basic", "price": "3499", "available": 5}, {"brand": "max", "price": 6999, "available": 2}]}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestTimeout = time.Second
	cfg.DiscoveryRetry = retry.UpstreamConfig.WithInitialDelay(time.Millisecond).WithMaxDelay(5 * time.Millisecond)
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg, srv.Client(), nil)
}

func TestClient_SearchDay_RequestShape(t *testing.T) {
	key := domain.SearchKey{Origin: "MOW", Destination: "AER", Date: "2025-08-15", PromoCode: "SUMMER"}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded;charset=UTF-8", r.Header.Get("Content-Type"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Origin"))
		assert.Contains(t, r.Header.Get("Referer"), "/websky/")

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "standard", r.PostForm.Get("searchGroupId"))
		assert.Equal(t, "1", r.PostForm.Get("segmentsCount"))
		assert.Equal(t, "15.08.2025", r.PostForm.Get("date[0]"))
		assert.Equal(t, "MOW", r.PostForm.Get("origin-city-code[0]"))
		assert.Equal(t, "AER", r.PostForm.Get("destination-city-code[0]"))
		assert.Equal(t, "1", r.PostForm.Get("adultsCount"))
		assert.Equal(t, "0", r.PostForm.Get("infantsWithoutSeatCount"))
		assert.Equal(t, "SUMMER", r.PostForm.Get("promoCode"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	day, err := client.SearchDay(context.Background(), key)
	require.NoError(t, err)

	assert.Equal(t, key, day.Key())
	require.Len(t, day.Flights, 1)
	assert.Equal(t, "DP 405", day.Flights[0].Flights[0].RaceNumber)

	price, ok := day.MinPrice()
	require.True(t, ok)
	assert.Equal(t, float64(3499), price)
	assert.Equal(t, domain.DefaultCurrency, day.Prices[0]["c1"][0].Currency)
}

func TestClient_SearchDay_NoPromoField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		_, present := r.PostForm["promoCode"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{}`))
	})

	day, err := client.SearchDay(context.Background(), domain.SearchKey{Origin: "MOW", Destination: "LED", Date: "2025-08-15"})
	require.NoError(t, err)
	assert.False(t, day.HasData(), "an empty payload is a valid no-flights day")
}

func TestClient_SearchDay_ErrorClassification(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		blocked         []int
		wantRateLimited bool
		wantStatus      int
	}{
		{name: "403 is rate limited", status: http.StatusForbidden, wantRateLimited: true, wantStatus: 403},
		{name: "429 is rate limited", status: http.StatusTooManyRequests, wantRateLimited: true, wantStatus: 429},
		{name: "500 is a generic failure", status: http.StatusInternalServerError, wantStatus: 500},
		{name: "404 is a generic failure", status: http.StatusNotFound, wantStatus: 404},
		{name: "malformed json is a generic failure", status: http.StatusOK, body: `{"flights": [`, wantStatus: 200},
		{name: "null body is a generic failure", status: http.StatusOK, body: `null`, wantStatus: 200},
		{name: "empty body is a generic failure", status: http.StatusOK, body: ``, wantStatus: 200},
		{name: "array body is a generic failure", status: http.StatusOK, body: `[]`, wantStatus: 200},
		{name: "string body is a generic failure", status: http.StatusOK, body: `"ok"`, wantStatus: 200},
		{name: "configured blocked status", status: http.StatusServiceUnavailable, blocked: []int{503}, wantRateLimited: true, wantStatus: 503},
		{name: "403 not blocked when reconfigured", status: http.StatusForbidden, blocked: []int{429}, wantStatus: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, func(c *Config) {
				if tt.blocked != nil {
					c.BlockedStatuses = tt.blocked
				}
			})

			day, err := client.SearchDay(context.Background(), domain.SearchKey{Origin: "MOW", Destination: "AER", Date: "2025-08-15"})
			require.Error(t, err)
			assert.Nil(t, day)

			assert.Equal(t, tt.wantRateLimited, domain.IsRateLimited(err))
			assert.Equal(t, !tt.wantRateLimited, errors.Is(err, domain.ErrUpstream))

			var upErr *domain.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.wantStatus, upErr.Status)
			assert.Equal(t, "search", upErr.Op)
		})
	}
}

func TestClient_SearchDay_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(c *Config) {
		c.RequestTimeout = 50 * time.Millisecond
	})

	start := time.Now()
	_, err := client.SearchDay(context.Background(), domain.SearchKey{Origin: "MOW", Destination: "AER", Date: "2025-08-15"})
	require.Error(t, err)
	assert.False(t, domain.IsRateLimited(err), "a timeout is not a block")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_SearchDay_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: baseURL, RequestTimeout: time.Second}, nil, nil)
	_, err := client.SearchDay(context.Background(), domain.SearchKey{Origin: "MOW", Destination: "AER", Date: "2025-08-15"})

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 0, upErr.Status)
}

func TestClient_RateLimiterPacesRequests(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	}, func(c *Config) {
		c.RateLimit = 20
		c.RateBurst = 1
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.SearchDay(context.Background(), domain.SearchKey{Origin: "MOW", Destination: "AER", Date: "2025-08-15"})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestClient_Destinations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, destinationsPath, r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "destination", r.PostForm.Get("returnPoints"))
		assert.Equal(t, "MOW", r.PostForm.Get("cityCode"))
		assert.Equal(t, "true", r.PostForm.Get("isBooking"))
		assert.Equal(t, "ru", r.PostForm.Get("lang"))

		_, _ = w.Write([]byte(`{"destination": [
			{"codeEn": "AER", "nameRu": "Сочи", "nameEn": "Sochi", "countryRu": "Россия", "countryEn": "Russia"},
			{"codeEn": "kzn", "nameEn": "Kazan"}
		]}`))
	})

	cities, err := client.Destinations(context.Background(), "MOW")
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, domain.City{Code: "AER", NameRu: "Сочи", NameEn: "Sochi", CountryRu: "Россия", CountryEn: "Russia"}, cities[0])
	assert.Equal(t, "KZN", cities[1].Code)
}

func TestClient_Destinations_Retries(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantErr      bool
		rateLimited  bool
		wantAttempts int32
	}{
		{name: "recovers from a server error", statuses: []int{500, 200}, wantAttempts: 2},
		{name: "gives up after max attempts", statuses: []int{502, 502, 502, 502}, wantErr: true, wantAttempts: 3},
		{name: "block is not retried", statuses: []int{403, 200}, wantErr: true, rateLimited: true, wantAttempts: 1},
		{name: "client error is not retried", statuses: []int{400, 200}, wantErr: true, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)
				status := tt.statuses[n-1]
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(`{"destination": [{"codeEn": "LED"}]}`))
				}
			})

			cities, err := client.Destinations(context.Background(), "MOW")
			assert.Equal(t, tt.wantAttempts, atomic.LoadInt32(&attempts))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, cities, 1)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.rateLimited, domain.IsRateLimited(err))
		})
	}
}

func TestClient_Destinations_NullBodyIsFailure(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		_, _ = w.Write([]byte(`null`))
	})

	cities, err := client.Destinations(context.Background(), "MOW")
	require.Error(t, err)
	assert.Nil(t, cities)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, int32(retry.UpstreamConfig.MaxAttempts), atomic.LoadInt32(&attempts))
}

func TestSiteOrigin(t *testing.T) {
	assert.Equal(t, "https://ticket.flypobeda.ru", siteOrigin(DefaultBaseURL))
	assert.Equal(t, "", siteOrigin("not a url"))
}
