package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/logger"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// NewRedisClient connects to Redis and verifies the connection with a PING.
// The caller owns the returned client and must Close it.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisStore is a FareCache shared across processes through Redis.
// Batch reads use a single MGET and batch writes a single pipeline.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	clock  timeutil.Clock
	log    *logger.Logger
}

// NewRedisStore wraps an existing client. A nil clock uses the system time
// and a nil logger discards output.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, clock timeutil.Clock, log *logger.Logger) *RedisStore {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{
		client: client,
		ttl:    normalizeTTL(ttl),
		clock:  clock,
		log:    log.WithComponent("redis_store"),
	}
}

// BatchGet fetches every date in one round trip. Undecodable and expired
// records are treated as misses.
func (s *RedisStore) BatchGet(ctx context.Context, route domain.Route, dates []domain.Date, promoCode string) (map[domain.Date]domain.DayResult, error) {
	found := make(map[domain.Date]domain.DayResult, len(dates))
	if len(dates) == 0 {
		return found, nil
	}

	keys := make([]string, len(dates))
	for i, date := range dates {
		keys[i] = cacheKey(route.Key(date, promoCode))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cached days for %s: %w", route, err)
	}

	now := s.clock.Now()
	for i, value := range values {
		if value == nil {
			continue
		}
		data, ok := value.(string)
		if !ok {
			s.log.Warn().Str("key", keys[i]).Msg("unexpected value type in cache")
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			s.log.Warn().Err(err).Str("key", keys[i]).Msg("failed to decode cached day")
			continue
		}
		if rec.expired(now) {
			continue
		}
		found[dates[i]] = rec.Payload
	}

	s.log.Debug().
		Str("route", route.String()).
		Int("requested", len(dates)).
		Int("found", len(found)).
		Msg("cache batch read")

	return found, nil
}

// Put stores payload under key with a fresh expiry.
func (s *RedisStore) Put(ctx context.Context, key domain.SearchKey, payload domain.DayResult) error {
	data, err := s.encode(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, cacheKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// BatchPut writes every day in one pipeline. Each SET succeeds or fails on
// its own; the returned error joins the individual failures.
func (s *RedisStore) BatchPut(ctx context.Context, route domain.Route, promoCode string, days []domain.DayResult) error {
	if len(days) == 0 {
		return nil
	}

	var errs []error
	pipe := s.client.Pipeline()
	queued := make([]domain.SearchKey, 0, len(days))
	for _, day := range days {
		key := route.Key(day.Date, promoCode)
		data, err := s.encode(day)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to encode %s: %w", key, err))
			continue
		}
		pipe.Set(ctx, cacheKey(key), data, s.ttl)
		queued = append(queued, key)
	}

	if len(queued) == 0 {
		return errors.Join(errs...)
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil && len(cmds) == 0 {
		return errors.Join(append(errs, fmt.Errorf("failed to cache days for %s: %w", route, err))...)
	}
	for i, cmd := range cmds {
		if cmdErr := cmd.Err(); cmdErr != nil && i < len(queued) {
			errs = append(errs, fmt.Errorf("failed to cache %s: %w", queued[i], cmdErr))
		}
	}
	return errors.Join(errs...)
}

func (s *RedisStore) encode(payload domain.DayResult) ([]byte, error) {
	return json.Marshal(newRecord(payload, s.clock.Now(), s.ttl))
}

var _ domain.FareCache = (*RedisStore)(nil)
