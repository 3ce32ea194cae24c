// ABOUTME: Retry helpers for API calls with exponential backoff
// ABOUTME: Shared by the OpenAI client and the ingestion upsert loop
package util

import (
	"context"
	"time"
)

// Backoff returns the delay before the given retry attempt. The base
// delay doubles each attempt, capped at 30 seconds. Attempt 0 (the first
// try) has no delay.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap the shift to avoid overflow on absurd attempt counts
	if attempt > 30 {
		attempt = 30
	}
	d := baseDelay * time.Duration(1<<uint(attempt-1))
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// Do runs fn up to attempts times, sleeping Backoff(baseDelay, n) before
// retry n. It returns nil on the first success, the last error once
// attempts are exhausted, or ctx.Err() if the context ends while waiting.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if delay := Backoff(baseDelay, attempt); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
