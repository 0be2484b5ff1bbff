package provider

import (
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// Stub renders a deterministic gradient placeholder so the pipeline can
// run without network access. The same prompt always yields the same
// image, which keeps cache keys and tests stable.
type Stub struct{}

// NewStub creates the offline placeholder provider.
func NewStub() *Stub { return &Stub{} }

// Name implements Provider.
func (s *Stub) Name() string { return "stub" }

// Generate implements Provider.
func (s *Stub) Generate(_ context.Context, prompt string, size image.Point) (image.Image, error) {
	w, h := size.X, size.Y
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Vertical gradient base.
	for y := 0; y < h; y++ {
		v := 24 + uint8(120*y/max(1, h-1))
		row := color.RGBA{R: v, G: v - 12, B: v - 20, A: 255}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, row)
		}
	}

	// Accent circles seeded by the prompt.
	hasher := fnv.New64a()
	hasher.Write([]byte(prompt))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))
	for i := 0; i < 5; i++ {
		cx := w/10 + rng.Intn(w*8/10)
		cy := h/10 + rng.Intn(h*8/10)
		r := min(w, h)/20 + rng.Intn(max(1, min(w, h)/10))
		col := color.RGBA{
			R: uint8(80 + rng.Intn(80)),
			G: uint8(60 + rng.Intn(60)),
			B: uint8(60 + rng.Intn(90)),
			A: 255,
		}
		drawCircleOutline(img, cx, cy, r, col)
	}
	return img, nil
}

// drawCircleOutline plots a 3px ring using the midpoint circle walk.
func drawCircleOutline(img draw.Image, cx, cy, r int, col color.Color) {
	for w := 0; w < 3; w++ {
		rr := r + w
		x, y, err := rr, 0, 1-rr
		for x >= y {
			plot8(img, cx, cy, x, y, col)
			y++
			if err < 0 {
				err += 2*y + 1
			} else {
				x--
				err += 2*(y-x) + 1
			}
		}
	}
}

func plot8(img draw.Image, cx, cy, x, y int, col color.Color) {
	pts := [8][2]int{
		{cx + x, cy + y}, {cx - x, cy + y}, {cx + x, cy - y}, {cx - x, cy - y},
		{cx + y, cy + x}, {cx - y, cy + x}, {cx + y, cy - x}, {cx - y, cy - x},
	}
	b := img.Bounds()
	for _, p := range pts {
		if image.Pt(p[0], p[1]).In(b) {
			img.Set(p[0], p[1], col)
		}
	}
}
