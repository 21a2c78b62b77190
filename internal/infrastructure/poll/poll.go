// Package poll provides a bounded retry primitive for waiting on slow
// external side effects, replacing dangling interval timers with a
// definite success-or-timeout result.
package poll

import (
	"context"
	"time"
)

// WaitFor evaluates check immediately and then at every interval until it
// reports success, the timeout elapses, or ctx is cancelled. The returned
// bool is false on timeout or cancellation. No timers remain after the
// result settles.
func WaitFor[T any](ctx context.Context, timeout, interval time.Duration, check func(context.Context) (T, bool)) (T, bool) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if value, ok := check(ctx); ok {
		return value, true
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return zero, false
		case <-ticker.C:
			if value, ok := check(ctx); ok {
				return value, true
			}
		}
	}
}
