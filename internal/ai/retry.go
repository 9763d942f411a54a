package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/CodexForgeBR/storyboard-artist/internal/ratelimit"
)

// Defaults applied when RetryConfig leaves a field at zero.
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 5 * time.Second
)

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts  int           // total attempts including the first (default 5)
	InitialDelay time.Duration // wait before the second attempt (default 5s when not positive)

	// OnRetry is called before each backoff wait. attempt is the 1-based
	// number of the attempt that just failed.
	OnRetry func(attempt int, delay time.Duration, err error)

	// Sleep performs the backoff wait. Defaults to ratelimit.Wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.Sleep == nil {
		c.Sleep = ratelimit.Wait
	}
	return c
}

// Run invokes op, retrying only transient failures.
// Delays: InitialDelay, InitialDelay*2, InitialDelay*4, ...
// A non-transient error is returned unchanged after a single attempt. When
// every attempt fails transiently the result is an *ExhaustedError wrapping
// the last failure. There is no wait after the final attempt.
func Run[T any](ctx context.Context, cfg RetryConfig, op Call[T]) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ratelimit.Classify(err) != ratelimit.KindTransient {
			return zero, err
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := ratelimit.Backoff(cfg.InitialDelay, attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		if waitErr := cfg.Sleep(ctx, delay); waitErr != nil {
			return zero, fmt.Errorf("rate limit wait cancelled: %w", waitErr)
		}
	}

	return zero, &ExhaustedError{Attempts: cfg.MaxAttempts, Err: lastErr}
}
