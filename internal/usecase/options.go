// Package usecase contains the search-and-cache orchestration: a bounded
// fetcher, a slow sequential retrier, the per-route search and the
// "anywhere" fan-out across every destination of an origin.
package usecase

import (
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// Default tuning values.
const (
	// DefaultFetchConcurrency is the per-search cap on in-flight upstream calls.
	DefaultFetchConcurrency = 3

	// DefaultRetryMinDelay and DefaultRetryMaxDelay bound the pause before
	// every request of the slow retry phase.
	DefaultRetryMinDelay = 8 * time.Second
	DefaultRetryMaxDelay = 12 * time.Second

	// DefaultAnywhereConcurrency is how many destinations an anywhere search
	// explores at once.
	DefaultAnywhereConcurrency = 4
)

// Config contains the tuning knobs shared by the search use cases.
type Config struct {
	// FetchConcurrency caps concurrent upstream calls within one route search
	FetchConcurrency int

	// RetryMinDelay is the lower bound of the slow retry pause
	RetryMinDelay time.Duration

	// RetryMaxDelay is the upper bound of the slow retry pause
	RetryMaxDelay time.Duration

	// AnywhereConcurrency caps concurrent route searches in an anywhere search (0 = unbounded)
	AnywhereConcurrency int

	// Currency is reported on every result
	Currency string

	// Location is the zone "today" is computed in
	Location *time.Location
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FetchConcurrency:    DefaultFetchConcurrency,
		RetryMinDelay:       DefaultRetryMinDelay,
		RetryMaxDelay:       DefaultRetryMaxDelay,
		AnywhereConcurrency: DefaultAnywhereConcurrency,
		Currency:            domain.DefaultCurrency,
		Location:            time.UTC,
	}
}

// withDefaults fills unset fields. An AnywhereConcurrency of 0 means
// unbounded and is kept as is.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = d.FetchConcurrency
	}
	if c.RetryMinDelay <= 0 {
		c.RetryMinDelay = d.RetryMinDelay
	}
	if c.RetryMaxDelay < c.RetryMinDelay {
		c.RetryMaxDelay = c.RetryMinDelay
	}
	if c.AnywhereConcurrency < 0 {
		c.AnywhereConcurrency = 0
	}
	if c.Currency == "" {
		c.Currency = d.Currency
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	return c
}

// Option customizes a use case at construction time.
type Option func(*options)

type options struct {
	clock   timeutil.Clock
	sleep   retry.Sleeper
	delayFn func(min, max time.Duration) time.Duration
}

func defaultOptions() options {
	return options{
		clock:   timeutil.NewRealClock(),
		sleep:   retry.Sleep,
		delayFn: retry.Uniform,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock sets the clock used to compute "today" and timestamps.
func WithClock(clock timeutil.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithSleeper replaces the function used to wait between paced requests.
func WithSleeper(sleep retry.Sleeper) Option {
	return func(o *options) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithDelayFunc replaces how a pause is picked from [min, max].
func WithDelayFunc(fn func(min, max time.Duration) time.Duration) Option {
	return func(o *options) {
		if fn != nil {
			o.delayFn = fn
		}
	}
}
