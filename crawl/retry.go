package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single navigation attempt or page operation.
const DefaultTimeout = 30 * time.Second

// DefaultRetryDelays returns the delays between navigation attempts: 1s, 2s.
// Navigation is attempted three times in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// isTimeout reports whether err is an expired per-attempt deadline rather
// than a cancellation or deadline of the parent context.
func isTimeout(parent context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil
}

// retryOnTimeout runs fn with a fresh timeout per attempt. Only attempts
// that time out are retried; any other error is returned immediately. After
// len(delays)+1 timed-out attempts the last error is returned.
func retryOnTimeout(ctx context.Context, timeout time.Duration, delays []time.Duration, logger *slog.Logger, url string, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err

		if !isTimeout(ctx, err) {
			return attempt + 1, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		logger.Warn("navigation timed out, retrying", "url", url, "attempt", attempt+2, "error", err)

		select {
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return maxAttempts, lastErr
}
