package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing submissions. A rate of zero or less
// disables limiting entirely.
type RateLimiter struct {
	limiter *rate.Limiter
	enabled bool
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained,
// with a burst of the same size.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		return &RateLimiter{enabled: false}
	}

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		enabled: true,
	}
}

// Wait blocks until a request may proceed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if !r.enabled {
		return nil
	}
	return r.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed without waiting.
func (r *RateLimiter) Allow() bool {
	if !r.enabled {
		return true
	}
	return r.limiter.Allow()
}

// SetRate updates the sustained rate. A rate of zero or less disables
// limiting.
func (r *RateLimiter) SetRate(requestsPerSecond float64) {
	if requestsPerSecond <= 0 {
		r.enabled = false
		return
	}

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	r.enabled = true
	if r.limiter == nil {
		r.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	} else {
		r.limiter.SetLimit(rate.Limit(requestsPerSecond))
		r.limiter.SetBurst(burst)
	}
}
