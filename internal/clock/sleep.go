// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

const (
	// MaxBackoff is the largest delay Backoff returns.
	MaxBackoff = 5 * time.Minute

	maxBackoffShift = 30
)

// Sleeper pauses for a duration. It matches SleepWithContext so tests can swap it out.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
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

// Backoff returns base * 2^attempt capped at MaxBackoff. Attempts are counted from zero.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 0 {
		return 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	if base > MaxBackoff>>uint(attempt) {
		return MaxBackoff
	}
	return base << uint(attempt)
}
