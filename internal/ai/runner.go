// Package ai runs outbound model calls with exponential backoff on rate-limit
// and quota failures.
package ai

import (
	"context"
	"fmt"
)

// Call is a zero-argument outbound operation producing a T.
type Call[T any] func(ctx context.Context) (T, error)

// ExhaustedError is returned when every attempt failed with a transient error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	msg := "<nil>"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("API call failed after %d attempts: %s", e.Attempts, msg)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
