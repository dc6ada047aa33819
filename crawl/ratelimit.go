package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces requests to one publisher by a fixed delay using a
// token bucket with a burst of 1 (no bursting allowed).
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a Throttle that allows one request per delay.
// The initial token is spent up front so the first request also waits.
// A non-positive delay disables throttling.
func NewThrottle(delay time.Duration) *Throttle {
	if delay <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	limiter.Allow()
	return &Throttle{limiter: limiter}
}

// Wait blocks until the next request is allowed.
// Returns an error if the context is canceled before the wait completes.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
