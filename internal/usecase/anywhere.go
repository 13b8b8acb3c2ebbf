package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// AnywhereQuery is the input of an anywhere search.
type AnywhereQuery struct {
	Origin      string
	MonthsAhead int
	PromoCode   string

	// MaxPrice drops destinations whose cheapest fare is above it (nil = no limit)
	MaxPrice *float64
}

// Validate checks the query.
func (q AnywhereQuery) Validate() error {
	if err := domain.ValidateCityCode("origin", q.Origin); err != nil {
		return err
	}
	if err := domain.ValidateMonths(q.MonthsAhead); err != nil {
		return err
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return domain.NewValidationError("max_price", "must not be negative")
	}
	return nil
}

// AnywhereSearchUseCase defines the anywhere search operation.
type AnywhereSearchUseCase interface {
	SearchAnywhere(ctx context.Context, q AnywhereQuery) (*domain.AnywhereResult, error)
}

// Ensure AnywhereSearcher implements AnywhereSearchUseCase.
var _ AnywhereSearchUseCase = (*AnywhereSearcher)(nil)

// AnywhereSearcher fans a period search out to every destination served from
// an origin and ranks destinations by their cheapest fare.
type AnywhereSearcher struct {
	directory domain.DestinationDirectory
	routes    *RouteSearcher
	limit     int
	clock     timeutil.Clock
	log       *logger.Logger
}

// NewAnywhereSearcher creates an AnywhereSearcher. cfg.AnywhereConcurrency
// bounds how many destinations are searched at once; 0 means unbounded.
func NewAnywhereSearcher(directory domain.DestinationDirectory, routes *RouteSearcher, cfg Config, log *logger.Logger, opts ...Option) *AnywhereSearcher {
	cfg = cfg.withDefaults()
	o := applyOptions(opts)
	if log == nil {
		log = logger.Nop()
	}

	return &AnywhereSearcher{
		directory: directory,
		routes:    routes,
		limit:     cfg.AnywhereConcurrency,
		clock:     o.clock,
		log:       log.WithComponent("anywhere_search"),
	}
}

// destinationOutcome is what one destination's search reduces to.
type destinationOutcome struct {
	summary domain.DestinationSummary
	priced  bool
	failed  bool
}

// SearchAnywhere searches every destination of q.Origin over q.MonthsAhead
// months. It returns an error only for an invalid query: when nothing viable is
// found the result holds a single entry whose Error explains why.
func (a *AnywhereSearcher) SearchAnywhere(ctx context.Context, q AnywhereQuery) (*domain.AnywhereResult, error) {
	q.Origin = domain.NormalizeCityCode(q.Origin)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := a.log.WithContext("origin", q.Origin)

	cities, err := a.directory.Destinations(ctx, q.Origin)
	if err != nil {
		log.Warn().Err(err).Msg("destination discovery failed")
		msg := fmt.Sprintf("could not load destinations from %s", q.Origin)
		if domain.IsRateLimited(err) {
			msg = fmt.Sprintf("destination lookup for %s was rate limited by the booking API, try again later", q.Origin)
		}
		return a.statusResult(q, msg, start), nil
	}

	cities = viableDestinations(q.Origin, cities)
	if len(cities) == 0 {
		log.Info().Msg("no destinations available")
		return a.statusResult(q, fmt.Sprintf("no destinations available from %s", q.Origin), start), nil
	}

	log.Info().Int("destinations", len(cities)).Int("months", q.MonthsAhead).Msg("anywhere search started")

	outcomes := make([]destinationOutcome, len(cities))
	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, city := range cities {
		i, city := i, city
		g.Go(func() error {
			outcomes[i] = a.searchDestination(ctx, log, q, city)
			return nil
		})
	}
	_ = g.Wait()

	summaries := make([]domain.DestinationSummary, 0, len(cities))
	var failed []string
	for _, out := range outcomes {
		if out.failed {
			failed = append(failed, out.summary.Destination)
			continue
		}
		if !out.priced {
			continue
		}
		if q.MaxPrice != nil && out.summary.MinPrice > *q.MaxPrice {
			continue
		}
		summaries = append(summaries, out.summary)
	}

	if len(summaries) == 0 {
		result := a.statusResult(q, fmt.Sprintf("no fares found from %s in the next %d month(s)", q.Origin, q.MonthsAhead), start)
		result.Metadata.DestinationsQueried = len(cities)
		result.Metadata.FailedDestinations = failed
		return result, nil
	}

	domain.SortSummaries(summaries)

	result := &domain.AnywhereResult{
		Origin:             q.Origin,
		SearchPeriodMonths: q.MonthsAhead,
		Destinations:       summaries,
		Metadata: domain.AnywhereMetadata{
			DestinationsQueried:    len(cities),
			DestinationsWithPrices: len(summaries),
			FailedDestinations:     failed,
			SearchTimeMs:           time.Since(start).Milliseconds(),
		},
	}

	log.Info().
		Int("queried", len(cities)).
		Int("with_prices", len(summaries)).
		Int("failed", len(failed)).
		Int64("duration_ms", result.Metadata.SearchTimeMs).
		Msg("anywhere search finished")

	return result, nil
}

// searchDestination runs one period search and reduces it. Panics and errors
// are contained to this destination.
func (a *AnywhereSearcher) searchDestination(ctx context.Context, log *logger.Logger, q AnywhereQuery, city domain.City) (out destinationOutcome) {
	out.summary = domain.DestinationSummary{Origin: q.Origin, Destination: city.Code}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("destination", city.Code).Interface("panic", r).Msg("destination search panicked")
			out = destinationOutcome{summary: out.summary, failed: true}
		}
	}()

	if err := ctx.Err(); err != nil {
		return destinationOutcome{summary: out.summary, failed: true}
	}

	result, err := a.routes.SearchPeriod(ctx, domain.NewRoute(q.Origin, city.Code), q.MonthsAhead, q.PromoCode)
	if err != nil {
		log.Warn().Err(err).Str("destination", city.Code).Msg("destination search failed")
		return destinationOutcome{summary: out.summary, failed: true}
	}

	summary, priced := reduce(result, city, q.MonthsAhead, a.clock.Now())
	if !priced && len(result.UnresolvedDates) == result.TotalDaysSearched {
		log.Warn().Str("destination", city.Code).Msg("every date of destination failed")
		return destinationOutcome{summary: summary, failed: true}
	}
	return destinationOutcome{summary: summary, priced: priced}
}

func (a *AnywhereSearcher) statusResult(q AnywhereQuery, msg string, start time.Time) *domain.AnywhereResult {
	result := domain.NewStatusResult(q.Origin, q.MonthsAhead, msg, a.clock.Now())
	result.Metadata.SearchTimeMs = time.Since(start).Milliseconds()
	return result
}

// reduce turns a route result into a summary. Every valid fare of every day
// is considered; priced is false when no day carries a valid fare.
func reduce(result *domain.RouteSearchResult, city domain.City, months int, at time.Time) (domain.DestinationSummary, bool) {
	summary := domain.DestinationSummary{
		Origin:               result.Origin,
		Destination:          city.Code,
		DestinationName:      city.NameRu,
		DestinationNameEn:    city.NameEn,
		DestinationCountry:   city.CountryRu,
		DestinationCountryEn: city.CountryEn,
		Currency:             result.Currency,
		TotalDaysSearched:    result.TotalDaysSearched,
		SearchPeriodMonths:   months,
		SearchedAt:           at,
	}

	priced := false
	for i := range result.Days {
		price, ok := result.Days[i].MinPrice()
		if !ok {
			continue
		}
		summary.TotalDaysWithPrices++
		if !priced || price < summary.MinPrice {
			summary.MinPrice = price
			summary.CheapestDate = result.Days[i].Date
			priced = true
		}
	}
	return summary, priced
}

// viableDestinations drops empty codes, the origin itself and duplicates.
func viableDestinations(origin string, cities []domain.City) []domain.City {
	seen := make(map[string]bool, len(cities))
	out := make([]domain.City, 0, len(cities))
	for _, c := range cities {
		c.Code = domain.NormalizeCityCode(c.Code)
		if c.Code == "" || c.Code == origin || seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		out = append(out, c)
	}
	return out
}
