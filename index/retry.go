package index

import (
	"context"
	"time"
)

// GenerateFunc is the signature for a model call.
type GenerateFunc func(ctx context.Context) (string, error)

// RetryFunc is called before each retry with the attempt number about to
// run and the error that caused it.
type RetryFunc func(attempt int, err error)

// DefaultRetryDelays returns the delays between model call attempts: a
// single retry after one second.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second}
}

// GenerateWithRetry calls generate until it succeeds, retrying once per
// entry in delays. Context cancellation stops the retries.
func GenerateWithRetry(ctx context.Context, generate GenerateFunc, onRetry RetryFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := generate(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
