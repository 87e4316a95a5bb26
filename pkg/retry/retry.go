// Package retry implements a bounded, synchronous retry policy for calls
// to external collaborators.
package retry

import (
	"context"
	"fmt"
	"time"
)

// BackoffFunc returns the delay before the given attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Policy bounds how often an operation is re-invoked. The zero value
// performs a single attempt with no delay.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// None performs exactly one attempt.
func None() Policy {
	return Policy{MaxAttempts: 1}
}

// Fixed retries up to maxAttempts with a constant delay between attempts.
func Fixed(maxAttempts int, delay time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff: func(int) time.Duration {
			return delay
		},
	}
}

// Exponential retries up to maxAttempts, doubling the base delay each
// attempt.
func Exponential(maxAttempts int, base time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff: func(attempt int) time.Duration {
			return base << (attempt - 1)
		},
	}
}

// Do invokes fn until it succeeds, the attempt budget is exhausted, or the
// context is cancelled. The last error is returned wrapped with the attempt
// count.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && p.Backoff != nil {
			select {
			case <-time.After(p.Backoff(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}
