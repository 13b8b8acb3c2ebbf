package usecase

import (
	"context"
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
)

// Retrier re-drives rate-limited dates one at a time with a long random pause
// before each request.
type Retrier struct {
	fetcher  *Fetcher
	minDelay time.Duration
	maxDelay time.Duration
	sleep    retry.Sleeper
	delayFn  func(min, max time.Duration) time.Duration
	log      *logger.Logger
}

// NewRetrier creates a Retrier that pauses a random duration in
// [minDelay, maxDelay] before every request.
func NewRetrier(fetcher *Fetcher, minDelay, maxDelay time.Duration, log *logger.Logger, opts ...Option) *Retrier {
	cfg := Config{RetryMinDelay: minDelay, RetryMaxDelay: maxDelay}.withDefaults()
	o := applyOptions(opts)
	if log == nil {
		log = logger.Nop()
	}

	return &Retrier{
		fetcher:  fetcher,
		minDelay: cfg.RetryMinDelay,
		maxDelay: cfg.RetryMaxDelay,
		sleep:    o.sleep,
		delayFn:  o.delayFn,
		log:      log.WithComponent("retrier"),
	}
}

// RetrySlow fetches dates sequentially in input order and returns one Outcome
// per date. If ctx ends while pausing, the remaining dates are returned as
// failures without being requested.
func (r *Retrier) RetrySlow(ctx context.Context, route domain.Route, dates []domain.Date, promoCode string) []Outcome {
	outcomes := make([]Outcome, 0, len(dates))

	for i, date := range dates {
		pause := r.delayFn(r.minDelay, r.maxDelay)
		if err := r.sleep(ctx, pause); err != nil {
			for _, rest := range dates[i:] {
				outcomes = append(outcomes, Outcome{Date: rest, Err: domain.NewUpstreamError("search", 0, err)})
			}
			r.log.Warn().Err(err).Int("abandoned", len(dates)-i).Msg("slow retry interrupted")
			break
		}

		out := r.fetcher.fetchOne(ctx, route.Key(date, promoCode))
		r.log.Debug().
			Str("date", date.String()).
			Dur("pause", pause).
			Stringer("outcome", out.Kind()).
			Msg("slow retry attempt")
		outcomes = append(outcomes, out)
	}

	return outcomes
}
