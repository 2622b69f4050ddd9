package client

import (
	"context"
	"time"
)

// RetryPolicy bounds how network calls are retried: a fixed number of
// attempts separated by a fixed interval, no jitter. Only transport errors
// and server-side (5xx) failures are retried; client errors never are.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultRetryPolicy mirrors the behavior users have come to expect from
// the web client: three tries, one second apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Interval: time.Second}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.Interval <= 0 {
		p.Interval = DefaultRetryPolicy.Interval
	}
	return p
}

// wait sleeps for the policy interval, honoring context cancellation.
func (p RetryPolicy) wait(ctx context.Context) error {
	t := time.NewTimer(p.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
