package embedder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelays(t *testing.T) {
	cfg := DefaultRetryConfig()

	t.Run("rate limit backoff doubles per attempt", func(t *testing.T) {
		assert.Equal(t, 1000*time.Millisecond, cfg.RateLimitDelay(0))
		assert.Equal(t, 2000*time.Millisecond, cfg.RateLimitDelay(1))
		assert.Equal(t, 4000*time.Millisecond, cfg.RateLimitDelay(2))
	})

	t.Run("transport backoff doubles per attempt", func(t *testing.T) {
		assert.Equal(t, 500*time.Millisecond, cfg.TransportDelay(0))
		assert.Equal(t, 1000*time.Millisecond, cfg.TransportDelay(1))
		assert.Equal(t, 2000*time.Millisecond, cfg.TransportDelay(2))
	})

	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, 3, cfg.MaxRetries)
	})
}

func TestSleep(t *testing.T) {
	t.Run("completes the wait", func(t *testing.T) {
		done := Sleep(context.Background(), time.Millisecond)
		assert.True(t, done)
	})

	t.Run("cancellation interrupts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		done := Sleep(ctx, time.Hour)
		assert.False(t, done)
	})
}
