package pipeline

import (
	"context"
	"time"

	"github.com/fwojciec/newsdoc"
)

// DefaultRetryDelays returns the backoff delays for page fetch retries: 500ms, 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second}
}

// fetchWithRetry fetches url, retrying once per entry in delays and waiting
// that long before each retry. Invalid URLs are not retried.
func fetchWithRetry(ctx context.Context, fetcher newsdoc.Fetcher, url string, delays []time.Duration, onRetry func(attempt int, err error)) (*newsdoc.Page, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || newsdoc.ErrorCode(err) == newsdoc.EINVALID {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
