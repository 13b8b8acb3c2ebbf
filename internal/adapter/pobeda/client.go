// Package pobeda is the booking API adapter. It implements
// domain.FlightSource and domain.DestinationDirectory over the airline's
// "websky" JSON endpoints.
package pobeda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
)

// Default connection settings.
const (
	DefaultBaseURL        = "https://ticket.flypobeda.ru/websky/json"
	DefaultRequestTimeout = 20 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	searchPath       = "/search-variants-mono-brand-cartesian"
	destinationsPath = "/dependence-cities"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// DefaultBlockedStatuses are the statuses the booking API answers with when
// its anti-abuse protection rejects a request.
var DefaultBlockedStatuses = []int{http.StatusForbidden, http.StatusTooManyRequests}

// Config holds the upstream client settings.
type Config struct {
	// BaseURL is the websky JSON API root
	BaseURL string

	// RequestTimeout bounds every single HTTP request
	RequestTimeout time.Duration

	// BlockedStatuses are classified as rate limited
	BlockedStatuses []int

	// RateLimit is the client-side request pacing in requests per second (0 disables)
	RateLimit float64

	// RateBurst is the pacing burst size
	RateBurst int

	// Currency is stamped on tariffs that do not carry their own
	Currency string

	// UserAgent is sent with every request
	UserAgent string

	// DiscoveryRetry governs retries of destination discovery
	DiscoveryRetry retry.Config
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		RequestTimeout:  DefaultRequestTimeout,
		BlockedStatuses: DefaultBlockedStatuses,
		Currency:        domain.DefaultCurrency,
		UserAgent:       DefaultUserAgent,
		DiscoveryRetry:  retry.UpstreamConfig,
	}
}

// Client talks to the booking API. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cfg     Config
	origin  string
	blocked map[int]bool
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient creates a Client. A nil httpClient uses a fresh http.Client;
// a nil logger discards output. Zero config fields take their defaults.
func NewClient(cfg Config, httpClient *http.Client, log *logger.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if len(cfg.BlockedStatuses) == 0 {
		cfg.BlockedStatuses = defaults.BlockedStatuses
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.DiscoveryRetry.MaxAttempts == 0 {
		cfg.DiscoveryRetry = defaults.DiscoveryRetry
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.Nop()
	}

	blocked := make(map[int]bool, len(cfg.BlockedStatuses))
	for _, status := range cfg.BlockedStatuses {
		blocked[status] = true
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		http:    httpClient,
		cfg:     cfg,
		origin:  siteOrigin(cfg.BaseURL),
		blocked: blocked,
		limiter: limiter,
		log:     log.WithComponent("pobeda_client"),
	}
}

// SearchDay fetches flights and fares for exactly one date.
// A response without flights is a successful empty day.
func (c *Client) SearchDay(ctx context.Context, key domain.SearchKey) (*domain.DayResult, error) {
	form := url.Values{
		"searchGroupId":            {"standard"},
		"segmentsCount":            {"1"},
		"date[0]":                  {key.Date.Upstream()},
		"origin-city-code[0]":      {key.Origin},
		"destination-city-code[0]": {key.Destination},
		"adultsCount":              {"1"},
		"youngAdultsCount":         {"0"},
		"childrenCount":            {"0"},
		"infantsWithSeatCount":     {"0"},
		"infantsWithoutSeatCount":  {"0"},
	}
	if key.PromoCode != "" {
		form.Set("promoCode", key.PromoCode)
	}

	var resp searchResponse
	if err := c.post(ctx, "search", searchPath, form, &resp); err != nil {
		c.log.Debug().Err(err).Str("key", key.String()).Msg("day search failed")
		return nil, err
	}

	return resp.toDayResult(key, c.cfg.Currency), nil
}

// Destinations lists the cities served from origin. Transport errors and
// server errors are retried; blocked and client-error statuses are not.
func (c *Client) Destinations(ctx context.Context, origin string) ([]domain.City, error) {
	form := url.Values{
		"returnPoints": {"destination"},
		"cityCode":     {origin},
		"isBooking":    {"true"},
		"lang":         {"ru"},
	}

	cities, err := retry.DoWithResult(ctx, func() ([]domain.City, error) {
		var resp destinationsResponse
		if err := c.post(ctx, "destinations", destinationsPath, form, &resp); err != nil {
			if !retryable(err) {
				return nil, retry.NewPermanent(err)
			}
			return nil, err
		}
		return resp.toCities(), nil
	}, c.cfg.DiscoveryRetry)
	if err != nil {
		c.log.Warn().Err(err).Str("origin", origin).Msg("destination discovery failed")
		return nil, err
	}

	c.log.Debug().Str("origin", origin).Int("count", len(cities)).Msg("destinations discovered")
	return cities, nil
}

// post sends a form request and decodes a 200 JSON response into out.
func (c *Client) post(ctx context.Context, op, path string, form url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewUpstreamError(op, 0, err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.NewUpstreamError(op, 0, err)
	}
	c.setHeaders(req)

	res, err := c.http.Do(req)
	if err != nil {
		return domain.NewUpstreamError(op, 0, err)
	}
	defer res.Body.Close()

	if c.blocked[res.StatusCode] {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return domain.NewRateLimitedError(op, res.StatusCode)
	}
	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return domain.NewUpstreamError(op, res.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return domain.NewUpstreamError(op, res.StatusCode, err)
	}
	if !isJSONObject(body) {
		return domain.NewUpstreamError(op, res.StatusCode, errors.New("response is not a JSON object"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewUpstreamError(op, res.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
		req.Header.Set("Referer", c.origin+"/websky/")
	}
}

// retryable reports whether a discovery failure is worth retrying:
// transport errors and 5xx statuses are, blocks and other 4xx are not.
func retryable(err error) bool {
	if domain.IsRateLimited(err) {
		return false
	}
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) && upErr.Status >= 400 && upErr.Status < 500 {
		return false
	}
	return true
}

// isJSONObject reports whether body is a JSON object at the top level.
// Both endpoints answer with an object; null, arrays and scalars are malformed.
func isJSONObject(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == '{'
}

// siteOrigin returns scheme://host of the API base URL.
func siteOrigin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

var (
	_ domain.FlightSource         = (*Client)(nil)
	_ domain.DestinationDirectory = (*Client)(nil)
)
