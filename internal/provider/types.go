// Package provider abstracts hero image generation so backends can be
// swapped: the OpenAI Images API for real runs, a deterministic stub for
// offline work and tests.
package provider

import (
	"context"
	"image"
)

// Provider generates a hero image for a prompt at the requested pixel
// size. Implementations must be safe for concurrent use.
type Provider interface {
	Generate(ctx context.Context, prompt string, size image.Point) (image.Image, error)
	Name() string
}
