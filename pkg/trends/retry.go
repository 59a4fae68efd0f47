package trends

import (
	"context"
	"math"
	"time"
)

// Retry re-runs a request with exponential backoff
type Retry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
}

// NewRetry creates a retry policy; maxRetries counts attempts after the first
func NewRetry(maxRetries int, retryDelay time.Duration) *Retry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
	}
}

// Execute runs fn until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries || !IsRetryable(err) {
			break
		}

		delay := time.Duration(float64(r.retryDelay) * math.Pow(r.backoffMultiplier, float64(attempt)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
