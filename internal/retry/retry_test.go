package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestDo(t *testing.T) {
	t.Run("returns result on first success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries retryable errors", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection refused")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable errors", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (string, error) {
			calls++
			return "", errors.New("got 404 from server")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(), func() (int, error) {
			calls++
			return 0, errors.New("timeout")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "all 3 attempts failed")
	})

	t.Run("respects context cancellation between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 5, InitialBackoff: 50 * time.Millisecond, MaxBackoff: time.Second}

		_, err := Do(ctx, cfg, func() (string, error) {
			cancel()
			return "", errors.New("timeout")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	retryable := []string{
		"timeout while reading",
		"connection refused",
		"got 503 from upstream",
		"rate limit exceeded",
		"unexpected EOF",
	}
	for _, msg := range retryable {
		assert.True(t, IsRetryable(errors.New(msg)), msg)
	}

	nonRetryable := []string{
		"got 401 unauthorized",
		"got 404 not found",
		"context canceled",
	}
	for _, msg := range nonRetryable {
		assert.False(t, IsRetryable(errors.New(msg)), msg)
	}

	assert.False(t, IsRetryable(nil))
}

func TestCalculateBackoff(t *testing.T) {
	initial := time.Second
	max := 10 * time.Second

	assert.Equal(t, time.Second, calculateBackoff(0, initial, max))
	assert.Equal(t, 2*time.Second, calculateBackoff(1, initial, max))
	assert.Equal(t, 4*time.Second, calculateBackoff(2, initial, max))
	assert.Equal(t, max, calculateBackoff(5, initial, max))
}
