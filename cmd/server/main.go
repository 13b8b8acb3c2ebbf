// Package main is the entry point for the fare tracker service.
//
//	@title						Fare Tracker API
//	@version					1.0.0
//	@description				Finds the cheapest fares on a route or from an origin by searching the booking API day by day, caching every answer.
//
//	@contact.name				API Support
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"

	// Import generated docs for swagger
	_ "github.com/farewatch/fare-tracker/docs"

	// Application layers
	farehttp "github.com/farewatch/fare-tracker/internal/adapter/http"
	"github.com/farewatch/fare-tracker/internal/adapter/http/middleware"
	"github.com/farewatch/fare-tracker/internal/adapter/pobeda"
	"github.com/farewatch/fare-tracker/internal/adapter/store"
	"github.com/farewatch/fare-tracker/internal/config"
	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
	"github.com/farewatch/fare-tracker/internal/usecase"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger with config
	logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "fare-tracker",
	})
	log := logger.Global

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("refresh_enabled", cfg.Refresh.Enabled).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, closeCache, err := setupCache(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up fare cache")
	}
	defer closeCache()

	client := pobeda.NewClient(pobeda.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		RequestTimeout:  cfg.Upstream.RequestTimeout,
		BlockedStatuses: cfg.Upstream.BlockedStatuses,
		RateLimit:       cfg.Upstream.RateLimit,
		RateBurst:       cfg.Upstream.RateBurst,
		Currency:        cfg.Upstream.Currency,
		UserAgent:       cfg.Upstream.UserAgent,
	}, nil, log.WithComponent("pobeda"))

	// Initialize use cases
	ucConfig := usecase.Config{
		FetchConcurrency:    cfg.Search.FetchMaxConcurrent,
		RetryMinDelay:       cfg.Search.RetryMinDelay,
		RetryMaxDelay:       cfg.Search.RetryMaxDelay,
		AnywhereConcurrency: cfg.Search.AnywhereMaxConcurrent,
		Currency:            cfg.Upstream.Currency,
		Location:            cfg.Location(),
	}
	fetcher := usecase.NewFetcher(client, ucConfig.FetchConcurrency, log)
	retrier := usecase.NewRetrier(fetcher, ucConfig.RetryMinDelay, ucConfig.RetryMaxDelay, log)
	routes := usecase.NewRouteSearcher(cache, fetcher, retrier, ucConfig, log)
	anywhere := usecase.NewAnywhereSearcher(client, routes, ucConfig, log)

	if cfg.Refresh.Enabled {
		refresher := usecase.NewRefresher(client, routes, usecase.RefreshConfig{
			Interval:              cfg.Refresh.Interval,
			Origins:               cfg.Refresh.Origins,
			DestinationsPerOrigin: cfg.Refresh.DestinationsPerOrigin,
			Months:                cfg.Refresh.Months,
			RoutePause:            cfg.Refresh.RoutePause,
		}, log)
		go func() {
			if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Background refresh stopped")
			}
		}()
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log, middleware.RecoveryConfig{DisablePrintStack: cfg.IsProduction()})
	farehttp.RegisterRoutes(e, farehttp.NewFareHandler(routes, anywhere, client, log))

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	gracefulShutdown(e, cfg, log)
}

// setupCache builds the configured fare cache and returns a function that
// releases its resources.
func setupCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.FareCache, func(), error) {
	clock := timeutil.NewRealClock()

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := store.NewRedisClient(ctx, store.RedisConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Cache.TTL).Msg("Using Redis fare cache")

		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Redis client")
			}
		}
		return store.NewRedisStore(client, cfg.Cache.TTL, clock, log), closeFn, nil

	default:
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("Using in-memory fare cache")
		return store.NewMemoryStore(cfg.Cache.TTL, clock), func() {}, nil
	}
}

// gracefulShutdown stops the server, letting in-flight searches finish
// within the configured shutdown timeout.
func gracefulShutdown(e *echo.Echo, cfg *config.Config, log *logger.Logger) {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
