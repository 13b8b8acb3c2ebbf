package usecase

import (
	"context"
	"time"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/retry"
)

// DefaultRefreshOrigins are the origins kept warm when none are configured.
var DefaultRefreshOrigins = []string{"MOW", "LED", "SVX", "KZN", "AER", "OVB", "UFA", "KRR", "ROV", "MRV"}

// RefreshConfig controls the background cache warmer.
type RefreshConfig struct {
	// Interval between refresh rounds
	Interval time.Duration

	// Origins whose routes are refreshed
	Origins []string

	// DestinationsPerOrigin is how many discovered destinations are refreshed per origin
	DestinationsPerOrigin int

	// Months is the period searched per route
	Months int

	// RoutePause is waited between two route searches
	RoutePause time.Duration
}

// DefaultRefreshConfig returns the default warmer settings.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:              6 * time.Hour,
		Origins:               DefaultRefreshOrigins,
		DestinationsPerOrigin: 5,
		Months:                1,
		RoutePause:            2 * time.Second,
	}
}

// RefreshStats summarizes one refresh round.
type RefreshStats struct {
	Routes     int
	Complete   int
	Incomplete int
	Skipped    int
}

// Refresher periodically re-runs period searches for popular routes so that
// interactive searches find a warm cache.
type Refresher struct {
	directory domain.DestinationDirectory
	routes    *RouteSearcher
	cfg       RefreshConfig
	sleep     retry.Sleeper
	log       *logger.Logger
}

// NewRefresher creates a Refresher. Zero config fields take their defaults.
func NewRefresher(directory domain.DestinationDirectory, routes *RouteSearcher, cfg RefreshConfig, log *logger.Logger, opts ...Option) *Refresher {
	d := DefaultRefreshConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if len(cfg.Origins) == 0 {
		cfg.Origins = d.Origins
	}
	if cfg.DestinationsPerOrigin <= 0 {
		cfg.DestinationsPerOrigin = d.DestinationsPerOrigin
	}
	if cfg.Months <= 0 {
		cfg.Months = d.Months
	}
	if cfg.RoutePause < 0 {
		cfg.RoutePause = 0
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Refresher{
		directory: directory,
		routes:    routes,
		cfg:       cfg,
		sleep:     applyOptions(opts).sleep,
		log:       log.WithComponent("refresher"),
	}
}

// Run refreshes immediately and then every Interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.log.Info().
		Dur("interval", r.cfg.Interval).
		Strs("origins", r.cfg.Origins).
		Msg("background refresh started")

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		r.RefreshOnce(ctx)

		select {
		case <-ctx.Done():
			r.log.Info().Msg("background refresh stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RefreshOnce runs one round over every configured origin.
func (r *Refresher) RefreshOnce(ctx context.Context) RefreshStats {
	var stats RefreshStats
	first := true

	for _, origin := range r.cfg.Origins {
		origin = domain.NormalizeCityCode(origin)
		cities, err := r.directory.Destinations(ctx, origin)
		if err != nil {
			r.log.Warn().Err(err).Str("origin", origin).Msg("skipping origin, destination discovery failed")
			stats.Skipped++
			continue
		}

		cities = viableDestinations(origin, cities)
		if len(cities) > r.cfg.DestinationsPerOrigin {
			cities = cities[:r.cfg.DestinationsPerOrigin]
		}

		for _, city := range cities {
			if !first {
				if err := r.sleep(ctx, r.cfg.RoutePause); err != nil {
					return stats
				}
			}
			first = false

			result, err := r.routes.SearchPeriod(ctx, domain.NewRoute(origin, city.Code), r.cfg.Months, "")
			if err != nil {
				r.log.Warn().Err(err).Str("origin", origin).Str("destination", city.Code).Msg("route refresh failed")
				stats.Skipped++
				continue
			}

			stats.Routes++
			if result.IsComplete {
				stats.Complete++
			} else {
				stats.Incomplete++
			}
		}
	}

	r.log.Info().
		Int("routes", stats.Routes).
		Int("complete", stats.Complete).
		Int("incomplete", stats.Incomplete).
		Int("skipped", stats.Skipped).
		Msg("background refresh round finished")

	return stats
}
