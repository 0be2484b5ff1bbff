package render

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ParseRatio parses an aspect ratio like "16:9" into its parts.
func ParseRatio(ratio string) (int, int, error) {
	var a, b int
	if _, err := fmt.Sscanf(ratio, "%d:%d", &a, &b); err != nil || a <= 0 || b <= 0 {
		return 0, 0, fmt.Errorf("invalid aspect ratio %q (want W:H)", ratio)
	}
	return a, b, nil
}

// RatioFolder converts "16:9" to a filesystem-safe "16x9".
func RatioFolder(ratio string) string {
	a, b, err := ParseRatio(ratio)
	if err != nil {
		return ratio
	}
	return fmt.Sprintf("%dx%d", a, b)
}

// CropToRatio crops img to the target aspect ratio, choosing the window
// with the highest edge energy so the subject survives the crop. Images
// already at the target ratio are returned as a copy.
func CropToRatio(img image.Image, ratio string) (image.Image, error) {
	a, b, err := ParseRatio(ratio)
	if err != nil {
		return nil, err
	}
	target := float64(a) / float64(b)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if math.Abs(float64(w)/float64(h)-target) < 1e-6 {
		return imaging.Clone(img), nil
	}

	rect := bestCropRect(img, target)
	return imaging.Crop(img, rect), nil
}

// bestCropRect scans candidate windows of the target ratio and scores
// each by sampled edge energy, with a small bias toward the lower part
// of the frame where product shots tend to sit.
func bestCropRect(img image.Image, target float64) image.Rectangle {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	energy := edgeEnergy(img)

	stepX := max(8, w/80)
	stepY := max(8, h/80)

	var candidates []image.Rectangle
	if cropH := int(float64(w) / target); cropH <= h {
		for y0 := 0; y0 <= h-cropH; y0 += stepY {
			candidates = append(candidates, image.Rect(0, y0, w, y0+cropH))
		}
	}
	if cropW := int(float64(h) * target); cropW <= w {
		for x0 := 0; x0 <= w-cropW; x0 += stepX {
			candidates = append(candidates, image.Rect(x0, 0, x0+cropW, h))
		}
	}

	best := bounds
	bestScore := math.Inf(-1)
	for _, rect := range candidates {
		score := 0.0
		sx := max(1, rect.Dx()/40)
		sy := max(1, rect.Dy()/40)
		for y := rect.Min.Y; y < rect.Max.Y; y += sy {
			for x := rect.Min.X; x < rect.Max.X; x += sx {
				score += float64(energy[y*w+x])
			}
		}
		lowerBias := float64(rect.Max.Y) / float64(h) * 0.05
		score *= 1.0 + lowerBias
		if score > bestScore {
			bestScore = score
			best = rect
		}
	}
	return best
}

// edgeEnergy returns a per-pixel gradient magnitude over the grayscale
// image, row-major.
func edgeEnergy(img image.Image) []uint8 {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	energy := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := gray.NRGBAAt(x, y).R
			var dx, dy int
			if x+1 < w {
				dx = int(gray.NRGBAAt(x+1, y).R) - int(c)
			}
			if y+1 < h {
				dy = int(gray.NRGBAAt(x, y+1).R) - int(c)
			}
			e := abs(dx) + abs(dy)
			if e > 255 {
				e = 255
			}
			energy[y*w+x] = uint8(e)
		}
	}
	return energy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
