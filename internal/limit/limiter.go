// Package limit provides politeness rate limiters.
//
// A limiter serializes request starts, a request may go out only
// after the configured interval has elapsed since the previous
// request was admitted, it never compounds with request latency.
package limit

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Limiter implements a shared interval limiter.
//
// All URLs contend on a single gate regardless of host.
type Limiter struct {
	limit *rate.Limiter
}

// New returns a new interval limiter.
//
// A non-positive interval disables the limiter.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		limit: newLimit(interval),
	}
}

// Limit implementation.
func (l *Limiter) Limit(ctx context.Context, _ *url.URL) error {
	return l.limit.Wait(ctx)
}

// NewLimit returns a rate limiter for the given interval.
func newLimit(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
