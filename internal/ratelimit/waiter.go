package ratelimit

import (
	"context"
	"math"
	"time"
)

// MaxBackoff is the ceiling Backoff saturates at instead of overflowing.
const MaxBackoff = time.Duration(math.MaxInt64)

// Backoff returns the wait before the retry that follows attempt index
// attemptIndex (0 for the first wait): initial * 2^attemptIndex, capped at
// MaxBackoff.
func Backoff(initial time.Duration, attemptIndex int) time.Duration {
	if attemptIndex < 0 {
		attemptIndex = 0
	}
	if initial <= 0 {
		return initial
	}
	if attemptIndex >= 63 || initial > MaxBackoff>>uint(attemptIndex) {
		return MaxBackoff
	}
	return initial << uint(attemptIndex)
}

// Wait blocks for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
