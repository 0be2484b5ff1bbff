package provider

import (
	"context"
	"image"

	"golang.org/x/time/rate"
)

// Throttled wraps a Provider with a request budget so pipeline workers
// do not exceed the backend's rate limits.
type Throttled struct {
	inner   Provider
	limiter *rate.Limiter
}

// Throttle limits the wrapped provider to perMinute generation calls.
// A non-positive budget returns the provider unchanged.
func Throttle(p Provider, perMinute int) Provider {
	if perMinute <= 0 {
		return p
	}
	return &Throttled{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// Name implements Provider.
func (t *Throttled) Name() string { return t.inner.Name() }

// Generate implements Provider, blocking until the limiter grants a slot
// or the context is cancelled.
func (t *Throttled) Generate(ctx context.Context, prompt string, size image.Point) (image.Image, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.Generate(ctx, prompt, size)
}
