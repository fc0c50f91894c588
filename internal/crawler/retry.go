package crawler

import (
	"context"
	"time"
)

// RetryPolicy controls how failed fetches are retried. Backoff and Sleep
// are injectable so tests never have to wait on real clocks.
type RetryPolicy struct {
	MaxRetries int
	Backoff    func(attempt int) time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy retries maxRetries times with exponential backoff
// (2^attempt seconds between attempts).
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
		Sleep: sleepContext,
	}
}

// Do runs fn until it succeeds or the retry budget is exhausted, sleeping
// the backoff interval between attempts. The last error is returned when
// every attempt fails. A cancelled context aborts the wait immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < p.MaxRetries {
			if err := p.Sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
