package resilience

import (
	"context"
	"time"
)

// Delay returns the wait before the retry that follows attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt+1) * p.BaseDelay
}

// Wait sleeps for Delay(attempt) or until ctx is done.
func (p RetryPolicy) Wait(ctx context.Context, attempt int) error {
	delay := p.Delay(attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
