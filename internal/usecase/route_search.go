package usecase

import (
	"context"
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// RouteSearchUseCase defines the route search operations exposed to callers.
type RouteSearchUseCase interface {
	// SearchMonth searches the 30 dates starting today.
	SearchMonth(ctx context.Context, route domain.Route, promoCode string) (*domain.RouteSearchResult, error)

	// SearchPeriod searches today through today plus 30*months days.
	SearchPeriod(ctx context.Context, route domain.Route, months int, promoCode string) (*domain.RouteSearchResult, error)

	// SearchDate searches a single date, which must not be in the past.
	SearchDate(ctx context.Context, route domain.Route, date domain.Date, promoCode string) (*domain.RouteSearchResult, error)
}

// Ensure RouteSearcher implements RouteSearchUseCase.
var _ RouteSearchUseCase = (*RouteSearcher)(nil)

// RouteSearcher answers "all fares for this route over this window",
// serving from the cache where possible and fetching only what is missing.
type RouteSearcher struct {
	cache    domain.FareCache
	fetcher  *Fetcher
	retrier  *Retrier
	clock    timeutil.Clock
	location *time.Location
	currency string
	log      *logger.Logger
}

// NewRouteSearcher wires a RouteSearcher from its collaborators.
func NewRouteSearcher(cache domain.FareCache, fetcher *Fetcher, retrier *Retrier, cfg Config, log *logger.Logger, opts ...Option) *RouteSearcher {
	cfg = cfg.withDefaults()
	o := applyOptions(opts)
	if log == nil {
		log = logger.Nop()
	}

	return &RouteSearcher{
		cache:    cache,
		fetcher:  fetcher,
		retrier:  retrier,
		clock:    o.clock,
		location: cfg.Location,
		currency: cfg.Currency,
		log:      log.WithComponent("route_search"),
	}
}

// Today returns the current date in the configured zone.
func (s *RouteSearcher) Today() domain.Date {
	return domain.Today(s.clock.Now(), s.location)
}

// SearchMonth searches the fixed 30 dates starting today.
func (s *RouteSearcher) SearchMonth(ctx context.Context, route domain.Route, promoCode string) (*domain.RouteSearchResult, error) {
	return s.Search(ctx, domain.NewMonthWindow(route, s.Today(), promoCode))
}

// SearchPeriod searches today through today+30*months.
func (s *RouteSearcher) SearchPeriod(ctx context.Context, route domain.Route, months int, promoCode string) (*domain.RouteSearchResult, error) {
	if err := domain.ValidateMonths(months); err != nil {
		return nil, err
	}
	return s.Search(ctx, domain.NewPeriodWindow(route, s.Today(), months, promoCode))
}

// SearchWeek searches the 7 dates starting today.
func (s *RouteSearcher) SearchWeek(ctx context.Context, route domain.Route, promoCode string) (*domain.RouteSearchResult, error) {
	return s.Search(ctx, domain.NewWeekWindow(route, s.Today(), promoCode))
}

// SearchDate searches a single date, which must not be in the past.
func (s *RouteSearcher) SearchDate(ctx context.Context, route domain.Route, date domain.Date, promoCode string) (*domain.RouteSearchResult, error) {
	if date.Before(s.Today()) {
		return nil, domain.NewValidationError("date", "must not be in the past")
	}
	return s.Search(ctx, domain.NewDateWindow(route, date, promoCode))
}

// Search runs the cache-first search over window. The only error it returns
// is an invalid window; per-date failures are reported through IsComplete
// and UnresolvedDates.
//
// Upstream calls and cache writes are detached from ctx: once dispatched they
// finish even if the caller goes away, so their results still reach the cache.
func (s *RouteSearcher) Search(ctx context.Context, window domain.SearchWindow) (*domain.RouteSearchResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	route := window.Route
	log := s.log.WithRoute(route.Origin, route.Destination, window.PromoCode)
	dates := window.Dates()

	cached, err := s.cache.BatchGet(ctx, route, dates, window.PromoCode)
	if err != nil {
		log.Warn().Err(err).Msg("cache read failed, fetching every date")
		cached = nil
	}

	days := make([]domain.DayResult, 0, len(dates))
	missing := make([]domain.Date, 0, len(dates))
	for _, date := range dates {
		day, ok := cached[date]
		if !ok {
			missing = append(missing, date)
			continue
		}
		if day.HasData() {
			days = append(days, day)
		}
	}

	log.Info().
		Int("total_days", len(dates)).
		Int("cached", len(dates)-len(missing)).
		Int("to_fetch", len(missing)).
		Msg("route search started")

	var (
		unresolved     []domain.Date
		retryRecovered bool
	)

	if len(missing) > 0 {
		fresh, rateLimited, failed := partition(s.fetcher.FetchMany(ctx, route, missing, window.PromoCode))
		days = appendWithData(days, fresh)
		unresolved = append(unresolved, failed...)
		s.store(ctx, log, route, window.PromoCode, fresh)

		for _, date := range failed {
			log.Warn().Str("date", date.String()).Msg("date fetch failed, not retried")
		}

		if len(rateLimited) > 0 {
			log.Info().Int("dates", len(rateLimited)).Msg("rate limited, starting slow retry")

			recovered, stillLimited, stillFailed := partition(s.retrier.RetrySlow(ctx, route, rateLimited, window.PromoCode))
			days = appendWithData(days, recovered)
			retryRecovered = len(recovered) > 0
			unresolved = append(unresolved, stillLimited...)
			unresolved = append(unresolved, stillFailed...)
			s.store(ctx, log, route, window.PromoCode, recovered)
		}
	}

	result := domain.NewRouteSearchResult(window, len(dates), days, unresolved, retryRecovered, s.currency)

	log.Info().
		Int("days_with_data", result.DaysWithData).
		Int("total_days", result.TotalDaysSearched).
		Bool("complete", result.IsComplete).
		Bool("retry_data", result.HasRetryData).
		Dur("duration", time.Since(start)).
		Msg("route search finished")

	return result, nil
}

// store writes successful days to the cache. Failures are logged only.
func (s *RouteSearcher) store(ctx context.Context, log *logger.Logger, route domain.Route, promoCode string, days []domain.DayResult) {
	if len(days) == 0 {
		return
	}
	if err := s.cache.BatchPut(context.WithoutCancel(ctx), route, promoCode, days); err != nil {
		log.Warn().Err(err).Int("days", len(days)).Msg("cache write failed")
	}
}

// partition splits outcomes into successful days, rate-limited dates and
// otherwise failed dates.
func partition(outcomes []Outcome) (succeeded []domain.DayResult, rateLimited, failed []domain.Date) {
	for _, out := range outcomes {
		switch out.Kind() {
		case OutcomeSuccess:
			succeeded = append(succeeded, out.Day)
		case OutcomeRateLimited:
			rateLimited = append(rateLimited, out.Date)
		default:
			failed = append(failed, out.Date)
		}
	}
	return succeeded, rateLimited, failed
}

// appendWithData appends only the days that carry flights or prices.
func appendWithData(dst []domain.DayResult, days []domain.DayResult) []domain.DayResult {
	for i := range days {
		if days[i].HasData() {
			dst = append(dst, days[i])
		}
	}
	return dst
}
