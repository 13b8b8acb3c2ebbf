package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: 1 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return nil
	}, DefaultConfig)

	assert.NoError(t, err)
	assert.Equal(t, int32(1), attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, fastConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_MaxAttemptsExceeded(t *testing.T) {
	var attempts int32
	expectedErr := errors.New("persistent error")

	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return expectedErr
	}, fastConfig(3))

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, int32(3), attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var attempts int32

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func() error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("temporary error")
	}, Config{
		MaxAttempts:  10,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	})

	assert.Equal(t, context.Canceled, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&attempts), int32(1))
}

func TestDo_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var attempts int32
	err := Do(ctx, func() error {
		atomic.AddInt32(&attempts, 1)
		return nil
	}, DefaultConfig)

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, int32(0), attempts)
}

func TestDo_MaxDelayRespected(t *testing.T) {
	start := time.Now()

	err := Do(context.Background(), func() error {
		return errors.New("error")
	}, Config{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     60 * time.Millisecond,
		Multiplier:   10.0,
	})

	assert.Error(t, err)
	// Four sleeps capped at 60ms each.
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestDo_ZeroMaxAttempts(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		atomic.AddInt32(&attempts, 1)
		return nil
	}, Config{MaxAttempts: 0})

	assert.NoError(t, err)
	assert.Equal(t, int32(1), attempts)
}

func TestDoWithResult(t *testing.T) {
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	tests := []struct {
		name         string
		cfg          Config
		failUntil    int32
		finalErr     error
		wantResult   int
		wantErr      error
		wantAttempts int32
	}{
		{
			name:         "succeeds after transient failures",
			cfg:          fastConfig(5),
			failUntil:    3,
			wantResult:   42,
			wantAttempts: 3,
		},
		{
			name:         "returns last result when attempts run out",
			cfg:          fastConfig(3),
			failUntil:    10,
			wantResult:   -1,
			wantErr:      retryableErr,
			wantAttempts: 3,
		},
		{
			name: "stops on non-retryable error",
			cfg: fastConfig(5).WithRetryIf(func(err error) bool {
				return err == retryableErr
			}),
			failUntil:    10,
			finalErr:     nonRetryableErr,
			wantResult:   -1,
			wantErr:      nonRetryableErr,
			wantAttempts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32

			result, err := DoWithResult(context.Background(), func() (int, error) {
				n := atomic.AddInt32(&attempts, 1)
				if n < tt.failUntil {
					if n > 1 && tt.finalErr != nil {
						return -1, tt.finalErr
					}
					return -1, retryableErr
				}
				return 42, nil
			}, tt.cfg)

			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantResult, result)
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestDo_WithSkipPermanent(t *testing.T) {
	var attempts int32

	err := Do(context.Background(), func() error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return errors.New("retryable")
		}
		return NewPermanent(errors.New("permanent"))
	}, fastConfig(5).WithRetryIf(SkipPermanent))

	assert.True(t, IsPermanent(err))
	assert.Equal(t, int32(2), attempts)
}

func TestPermanentError(t *testing.T) {
	originalErr := errors.New("status 400")
	permanent := NewPermanent(originalErr)

	assert.True(t, IsPermanent(permanent))
	assert.Equal(t, "status 400", permanent.Error())
	assert.ErrorIs(t, permanent, originalErr)

	assert.Nil(t, NewPermanent(nil))
	assert.False(t, IsPermanent(errors.New("regular error")))
	assert.False(t, IsPermanent(nil))
	assert.Equal(t, "permanent error", (&Permanent{}).Error())
}

func TestConfig_Builders(t *testing.T) {
	cfg := DefaultConfig.
		WithMaxAttempts(5).
		WithInitialDelay(200 * time.Millisecond).
		WithMaxDelay(5 * time.Second).
		WithRetryIf(SkipPermanent)

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
	assert.NotNil(t, cfg.RetryIf)

	assert.Equal(t, 3, DefaultConfig.MaxAttempts, "builders must not mutate the receiver")
}

func TestUpstreamConfig(t *testing.T) {
	assert.Equal(t, 3, UpstreamConfig.MaxAttempts)
	assert.Equal(t, 5*time.Second, UpstreamConfig.MaxDelay)
	require.NotNil(t, UpstreamConfig.RetryIf)
	assert.False(t, UpstreamConfig.RetryIf(NewPermanent(errors.New("bad request"))))
}

func TestSleep(t *testing.T) {
	t.Run("waits for the duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := Sleep(ctx, time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("zero duration only checks the context", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))
	})
}

func TestUniform(t *testing.T) {
	min, max := 8*time.Second, 12*time.Second

	for i := 0; i < 1000; i++ {
		d := Uniform(min, max)
		assert.GreaterOrEqual(t, d, min)
		assert.LessOrEqual(t, d, max)
	}

	assert.Equal(t, 5*time.Second, Uniform(5*time.Second, 5*time.Second))

	swapped := Uniform(max, min)
	assert.GreaterOrEqual(t, swapped, min)
	assert.LessOrEqual(t, swapped, max)
}
