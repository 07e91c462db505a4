package kv

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedBackend throttles backend operations with a token bucket.
//
// Useful in front of remote backends (S3, DynamoDB) to keep a flush burst
// within provisioned request budgets.
type RateLimitedBackend struct {
	inner   Backend
	limiter *rate.Limiter
}

// NewRateLimitedBackend wraps inner, allowing opsPerSecond sustained
// operations with the given burst.
func NewRateLimitedBackend(inner Backend, opsPerSecond float64, burst int) *RateLimitedBackend {
	return &RateLimitedBackend{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), burst),
	}
}

// Load waits for the rate limiter, then loads from the inner backend.
func (r *RateLimitedBackend) Load(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}
	return r.inner.Load(ctx, key)
}

// Store waits for the rate limiter, then stores to the inner backend.
func (r *RateLimitedBackend) Store(ctx context.Context, key Key, value []byte) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.Store(ctx, key, value)
}

// Clear waits for the rate limiter, then clears on the inner backend.
func (r *RateLimitedBackend) Clear(ctx context.Context, key Key) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.Clear(ctx, key)
}
