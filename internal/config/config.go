// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Search   SearchConfig
	Refresh  RefreshConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
// The write timeout must leave room for the slow retry phase of a month search.
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// UpstreamConfig holds booking API client settings.
type UpstreamConfig struct {
	BaseURL         string        `env:"UPSTREAM_BASE_URL" envDefault:"https://ticket.flypobeda.ru/websky/json"`
	RequestTimeout  time.Duration `env:"UPSTREAM_REQUEST_TIMEOUT" envDefault:"20s"`
	BlockedStatuses []int         `env:"UPSTREAM_BLOCKED_STATUSES" envDefault:"403,429" envSeparator:","`
	RateLimit       float64       `env:"UPSTREAM_RATE_LIMIT" envDefault:"0"`
	RateBurst       int           `env:"UPSTREAM_RATE_BURST" envDefault:"1"`
	Currency        string        `env:"UPSTREAM_CURRENCY" envDefault:"RUB"`
	UserAgent       string        `env:"UPSTREAM_USER_AGENT"`
}

// CacheConfig selects and tunes the fare cache.
type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"6h"`
}

// RedisConfig holds Redis connection settings, used when CACHE_BACKEND=redis.
type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// SearchConfig holds the search orchestration knobs.
type SearchConfig struct {
	FetchMaxConcurrent    int           `env:"FETCH_MAX_CONCURRENT" envDefault:"3"`
	RetryMinDelay         time.Duration `env:"RETRY_MIN_DELAY" envDefault:"8s"`
	RetryMaxDelay         time.Duration `env:"RETRY_MAX_DELAY" envDefault:"12s"`
	AnywhereMaxConcurrent int           `env:"ANYWHERE_MAX_CONCURRENT" envDefault:"4"`
	Timezone              string        `env:"SEARCH_TIMEZONE" envDefault:"Europe/Moscow"`
}

// RefreshConfig holds the background cache warmer settings.
type RefreshConfig struct {
	Enabled               bool          `env:"REFRESH_ENABLED" envDefault:"false"`
	Interval              time.Duration `env:"REFRESH_INTERVAL" envDefault:"6h"`
	Origins               []string      `env:"REFRESH_ORIGINS" envDefault:"MOW,LED,SVX,KZN,AER,OVB,UFA,KRR,ROV,MRV" envSeparator:","`
	DestinationsPerOrigin int           `env:"REFRESH_DESTINATIONS_PER_ORIGIN" envDefault:"5"`
	Months                int           `env:"REFRESH_MONTHS" envDefault:"1"`
	RoutePause            time.Duration `env:"REFRESH_ROUTE_PAUSE" envDefault:"2s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout},
		{"UPSTREAM_REQUEST_TIMEOUT", cfg.Upstream.RequestTimeout},
		{"CACHE_TTL", cfg.Cache.TTL},
		{"RETRY_MIN_DELAY", cfg.Search.RetryMinDelay},
		{"REFRESH_INTERVAL", cfg.Refresh.Interval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	if cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	for _, status := range cfg.Upstream.BlockedStatuses {
		if status < 100 || status > 599 {
			return fmt.Errorf("UPSTREAM_BLOCKED_STATUSES must hold HTTP status codes, got %d", status)
		}
	}
	if cfg.Upstream.RateLimit < 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must not be negative")
	}

	validBackends := map[string]bool{CacheBackendMemory: true, CacheBackendRedis: true}
	if !validBackends[cfg.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis; got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == CacheBackendRedis && cfg.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND is redis")
	}

	if cfg.Search.FetchMaxConcurrent < 1 {
		return fmt.Errorf("FETCH_MAX_CONCURRENT must be at least 1, got %d", cfg.Search.FetchMaxConcurrent)
	}
	if cfg.Search.AnywhereMaxConcurrent < 0 {
		return fmt.Errorf("ANYWHERE_MAX_CONCURRENT must not be negative, got %d", cfg.Search.AnywhereMaxConcurrent)
	}
	if cfg.Search.RetryMaxDelay < cfg.Search.RetryMinDelay {
		return fmt.Errorf("RETRY_MAX_DELAY (%s) must not be less than RETRY_MIN_DELAY (%s)",
			cfg.Search.RetryMaxDelay, cfg.Search.RetryMinDelay)
	}
	if _, err := timeutil.GetLocation(cfg.Search.Timezone); err != nil {
		return fmt.Errorf("SEARCH_TIMEZONE is not a valid zone: %w", err)
	}

	if cfg.Refresh.Enabled {
		if len(cfg.Refresh.Origins) == 0 {
			return fmt.Errorf("REFRESH_ORIGINS must not be empty when REFRESH_ENABLED is true")
		}
		if cfg.Refresh.DestinationsPerOrigin < 1 {
			return fmt.Errorf("REFRESH_DESTINATIONS_PER_ORIGIN must be at least 1, got %d", cfg.Refresh.DestinationsPerOrigin)
		}
		if cfg.Refresh.Months < 1 || cfg.Refresh.Months > domain.MaxMonthsAhead {
			return fmt.Errorf("REFRESH_MONTHS must be between 1 and %d, got %d", domain.MaxMonthsAhead, cfg.Refresh.Months)
		}
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// Location returns the zone "today" is computed in.
func (c *Config) Location() *time.Location {
	return timeutil.MustGetLocation(c.Search.Timezone)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
