package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
)

// OutcomeKind classifies a single-date fetch.
type OutcomeKind int

const (
	// OutcomeSuccess means the upstream answered; the day may still be empty.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeRateLimited means the upstream explicitly blocked the request.
	OutcomeRateLimited

	// OutcomeFailed covers every other failure, panics included.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

// Outcome is the result of fetching one date.
type Outcome struct {
	Date domain.Date
	Day  domain.DayResult
	Err  error
}

// Kind classifies the outcome.
func (o Outcome) Kind() OutcomeKind {
	switch {
	case o.Err == nil:
		return OutcomeSuccess
	case domain.IsRateLimited(o.Err):
		return OutcomeRateLimited
	default:
		return OutcomeFailed
	}
}

// Fetcher issues single-date upstream searches under a concurrency cap.
// Concurrent requests for the same SearchKey, from any caller, share one
// upstream call.
type Fetcher struct {
	source domain.FlightSource
	limit  int64
	group  singleflight.Group
	log    *logger.Logger
}

// NewFetcher creates a Fetcher allowing at most limit calls in flight per FetchMany.
func NewFetcher(source domain.FlightSource, limit int, log *logger.Logger) *Fetcher {
	if limit <= 0 {
		limit = DefaultFetchConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		source: source,
		limit:  int64(limit),
		log:    log.WithComponent("fetcher"),
	}
}

// FetchMany fetches every date and returns one Outcome per date, in input order.
//
// Once ctx is done no further dates are dispatched; those dates come back as
// failures. Calls already dispatched run to completion under the source's own
// per-call timeout.
func (f *Fetcher) FetchMany(ctx context.Context, route domain.Route, dates []domain.Date, promoCode string) []Outcome {
	outcomes := make([]Outcome, len(dates))
	sem := semaphore.NewWeighted(f.limit)

	var wg sync.WaitGroup
	for i, date := range dates {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(dates); j++ {
				outcomes[j] = Outcome{Date: dates[j], Err: domain.NewUpstreamError("search", 0, err)}
			}
			break
		}

		wg.Add(1)
		go func(i int, key domain.SearchKey) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = f.fetchOne(ctx, key)
		}(i, route.Key(date, promoCode))
	}
	wg.Wait()

	return outcomes
}

// fetchOne performs one coalesced upstream call. Panics in the source are
// converted to failures.
func (f *Fetcher) fetchOne(ctx context.Context, key domain.SearchKey) (out Outcome) {
	out.Date = key.Date

	defer func() {
		if r := recover(); r != nil {
			f.log.Error().Str("key", key.String()).Interface("panic", r).Msg("flight source panicked")
			out = Outcome{Date: key.Date, Err: domain.NewUpstreamError("search", 0, fmt.Errorf("panic: %v", r))}
		}
	}()

	callCtx := context.WithoutCancel(ctx)
	v, err, shared := f.group.Do(key.String(), func() (interface{}, error) {
		return f.source.SearchDay(callCtx, key)
	})
	if shared {
		f.log.Debug().Str("key", key.String()).Msg("coalesced upstream call")
	}
	if err != nil {
		out.Err = err
		return out
	}

	if day, ok := v.(*domain.DayResult); ok && day != nil {
		out.Day = *day
	}
	out.Day.Date = key.Date
	out.Day.Origin = key.Origin
	out.Day.Destination = key.Destination
	out.Day.PromoCode = key.PromoCode
	return out
}
