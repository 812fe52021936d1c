package fetch

import (
	"context"
	"time"
)

// retry runs fn up to attempts times with exponential backoff capped at max.
// It stops early when fn succeeds, when retryable reports false, or when ctx
// is done. onRetry is called before every sleep.
func retry(ctx context.Context, attempts int, initial, max time.Duration,
	retryable func(error) bool, onRetry func(attempt int, err error), fn func() error,
) error {
	if attempts < 1 {
		attempts = 1
	}
	d := initial
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if onRetry != nil {
				onRetry(i, err)
			}
			t := time.NewTimer(d)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
			if d < max {
				d *= 2
				if d > max {
					d = max
				}
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	return err
}
