package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farewatch/fare-tracker/internal/domain"
	"github.com/farewatch/fare-tracker/internal/infrastructure/timeutil"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRedisStore_SetsServerSideTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, 6*time.Hour, timeutil.NewMockClock(testNow), nil)

	key := testRoute.Key(testStart, "")
	require.NoError(t, s.Put(context.Background(), key, day(testStart, 100)))

	assert.True(t, mr.Exists("fare:MOW:AER:2025-07-01:-"))
	assert.Equal(t, 6*time.Hour, mr.TTL("fare:MOW:AER:2025-07-01:-"))
}

func TestRedisStore_EnvelopeExpiryIsChecked(t *testing.T) {
	_, client := newTestRedis(t)
	clock := timeutil.NewMockClock(testNow)
	s := NewRedisStore(client, time.Hour, clock, nil)

	require.NoError(t, s.Put(context.Background(), testRoute.Key(testStart, ""), day(testStart, 100)))

	// Redis still holds the key; the envelope says it is stale.
	clock.Advance(2 * time.Hour)
	got, err := s.BatchGet(context.Background(), testRoute, []domain.Date{testStart}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_CorruptRecordIsAMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, time.Hour, timeutil.NewMockClock(testNow), nil)

	dates := []domain.Date{testStart, testStart.AddDays(1)}
	require.NoError(t, mr.Set("fare:MOW:AER:2025-07-01:-", "{not json"))
	require.NoError(t, s.Put(context.Background(), testRoute.Key(dates[1], ""), day(dates[1], 300)))

	got, err := s.BatchGet(context.Background(), testRoute, dates, "")
	require.NoError(t, err)
	assert.NotContains(t, got, dates[0])
	assert.Contains(t, got, dates[1])
}

func TestRedisStore_BackendFailure(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, time.Hour, timeutil.NewMockClock(testNow), nil)
	mr.Close()

	ctx := context.Background()
	_, err := s.BatchGet(ctx, testRoute, []domain.Date{testStart}, "")
	assert.Error(t, err)

	assert.Error(t, s.Put(ctx, testRoute.Key(testStart, ""), day(testStart, 1)))
	assert.Error(t, s.BatchPut(ctx, testRoute, "", []domain.DayResult{day(testStart, 1), day(testStart.AddDays(1), 2)}))
}

func TestRedisStore_EmptyBatchGet(t *testing.T) {
	_, client := newTestRedis(t)
	s := NewRedisStore(client, time.Hour, nil, nil)

	got, err := s.BatchGet(context.Background(), testRoute, nil, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
