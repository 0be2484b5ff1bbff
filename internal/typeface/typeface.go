// Package typeface loads the headline font and measures rendered text.
// It backs the layout engine's Measurer with real font metrics via
// github.com/tdewolff/canvas.
package typeface

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
)

// Conversion between points and the pixel units used throughout the
// pipeline. The canvas coordinate space is treated as 1 unit = 1 px and
// rasterized at that density, so font sizes given in px are converted to
// pt at the font-face boundary.
const (
	ptToPx = 0.352777
	pxToPt = 1.0 / ptToPx
)

// lineSpacing adds breathing room between wrapped headline lines.
const lineSpacing = 1.1

// systemFontPaths are tried when no font path is configured.
var systemFontPaths = []string{
	"assets/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
}

// Face is a loaded font family that can measure and draw headline text.
// Font shaping caches inside canvas are not synchronized, so all access
// goes through a mutex; pipeline workers share one Face.
type Face struct {
	mu     sync.Mutex
	family *canvas.FontFamily
	faces  map[faceKey]*canvas.FontFace
}

type faceKey struct {
	size  float64
	color color.RGBA
}

// Load opens the first usable font among the configured path and the
// system fallbacks.
func Load(fontPath string) (*Face, error) {
	candidates := systemFontPaths
	if fontPath != "" {
		candidates = append([]string{fontPath}, systemFontPaths...)
	}

	family := canvas.NewFontFamily("headline")
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := family.LoadFontFile(path, canvas.FontRegular); err != nil {
			continue
		}
		return &Face{family: family, faces: make(map[faceKey]*canvas.FontFace)}, nil
	}
	return nil, fmt.Errorf("no usable headline font found (tried %d candidates); set layout.font_path", len(candidates))
}

func (f *Face) face(sizePx float64, col color.RGBA) *canvas.FontFace {
	key := faceKey{size: sizePx, color: col}
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := f.family.Face(sizePx*pxToPt, col, canvas.FontRegular, canvas.FontNormal)
	f.faces[key] = face
	return face
}

// LineWidth implements layout.Measurer.
func (f *Face) LineWidth(text string, size float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face(size, color.RGBA{A: 255}).TextWidth(text)
}

// LineHeight implements layout.Measurer.
func (f *Face) LineHeight(size float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.face(size, color.RGBA{A: 255}).Metrics().LineHeight
	if h <= 0 {
		h = size * 1.2
	}
	return h * lineSpacing
}

// Ascent returns the distance from a line's top to its baseline.
func (f *Face) Ascent(size float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face(size, color.RGBA{A: 255}).Metrics().Ascent
}

// TextLine produces a drawable line at the given size and color for the
// renderer. The caller must not mutate the returned line.
func (f *Face) TextLine(text string, size float64, col color.RGBA) *canvas.Text {
	f.mu.Lock()
	defer f.mu.Unlock()
	return canvas.NewTextLine(f.face(size, col), text, canvas.Left)
}
