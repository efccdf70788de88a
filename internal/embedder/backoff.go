package embedder

import (
	"context"
	"time"
)

// Retry configuration shared by the remote batch runner.
const (
	MaxRetries           = 3
	RateLimitBackoffBase = 1000 * time.Millisecond
	TransportBackoffBase = 500 * time.Millisecond
)

// RetryConfig bounds the per-request retry loop for remote providers.
type RetryConfig struct {
	MaxRetries         int           // attempts per file
	RateLimitBaseDelay time.Duration // backoff base after HTTP 429
	TransportBaseDelay time.Duration // backoff base after transport failures
}

// DefaultRetryConfig returns the defaults used by embedding jobs.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         MaxRetries,
		RateLimitBaseDelay: RateLimitBackoffBase,
		TransportBaseDelay: TransportBackoffBase,
	}
}

// RateLimitDelay returns base * 2^attempt for rate-limit backoff.
func (c RetryConfig) RateLimitDelay(attempt int) time.Duration {
	return c.RateLimitBaseDelay << attempt
}

// TransportDelay returns base * 2^attempt for transport backoff.
func (c RetryConfig) TransportDelay(attempt int) time.Duration {
	return c.TransportBaseDelay << attempt
}

// Sleep waits for d or until ctx is done, reporting whether the full wait
// completed. Backoff suspends only the calling task.
func Sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
