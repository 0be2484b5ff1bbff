// Package render composes final creatives: ratio-aware cropping, the
// brand band overlay, fitted headline text, and logo placement.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/brandforge/brandforge/internal/layout"
	"github.com/brandforge/brandforge/internal/typeface"
)

// Geometry places the brand band, headline block, and logo on a creative
// of a given pixel size. All values are pixels.
type Geometry struct {
	Width      int
	Height     int
	BandY      float64
	BandHeight float64
	TextX      float64
	TextY      float64
	TextWidth  float64
	TextHeight float64
	LogoWidth  int
	LogoHeight int
}

// PlanBand computes band geometry for a creative of the given size,
// reserving space on the right for the logo when one is present. Band
// proportions follow the creative's aspect ratio: wide formats get a
// shallower band, tall formats a deeper one.
func PlanBand(width, height int, logo image.Image) Geometry {
	ar := float64(width) / float64(height)

	var bandH float64
	switch {
	case ar >= 1.4:
		bandH = float64(height) * 0.18
	case ar <= 0.8:
		bandH = float64(height) * 0.22
	default:
		bandH = float64(height) * 0.20
	}
	bandY := float64(height) - bandH

	rightMargin := float64(width) * 0.04
	leftMargin := float64(width) * 0.06

	g := Geometry{
		Width:      width,
		Height:     height,
		BandY:      bandY,
		BandHeight: bandH,
	}

	logoReserved := 0.0
	if logo != nil {
		targetH := bandH * 0.80
		if ar >= 1.4 {
			targetH = bandH * 1.10
		}
		if targetH > bandH-2 {
			targetH = bandH - 2
		}
		lb := logo.Bounds()
		scale := targetH / float64(lb.Dy())
		g.LogoHeight = int(targetH)
		g.LogoWidth = int(float64(lb.Dx()) * scale)
		logoReserved = float64(g.LogoWidth) + rightMargin
	}

	textW := float64(width) - leftMargin - logoReserved - rightMargin
	if textW < 80 {
		textW = 80
	}
	textH := bandH * 0.88
	if ar >= 1.4 {
		textH = bandH * 0.82
	}

	g.TextX = leftMargin
	g.TextWidth = textW
	g.TextHeight = textH
	g.TextY = bandY + (bandH-textH)/2
	return g
}

// Compose draws the brand band, the fitted headline block, and the logo
// over the cropped base image and rasterizes the result at one unit per
// pixel.
func Compose(base image.Image, g Geometry, fitted layout.Result, brandColors []string, logo image.Image, face *typeface.Face) (image.Image, error) {
	c := canvas.New(float64(g.Width), float64(g.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.DrawImage(0, 0, base, canvas.DPMM(1))

	ctx.SetFillColor(bandColor(brandColors))
	ctx.DrawPath(0, g.BandY, canvas.Rectangle(float64(g.Width), g.BandHeight))

	// Headline lines, left-aligned and vertically centered in the text box.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	lineH := face.LineHeight(fitted.FontSize)
	ascent := face.Ascent(fitted.FontSize)
	cursor := g.TextY + (g.TextHeight-fitted.Height)/2
	for _, line := range fitted.Lines {
		ctx.DrawText(g.TextX, cursor+ascent, face.TextLine(line, fitted.FontSize, white))
		cursor += lineH
	}

	if logo != nil && g.LogoWidth > 0 && g.LogoHeight > 0 {
		resized := imaging.Resize(logo, g.LogoWidth, g.LogoHeight, imaging.Lanczos)
		lx := float64(g.Width) - float64(g.Width)*0.04 - float64(g.LogoWidth)
		ly := g.BandY + (g.BandHeight-float64(g.LogoHeight))/2
		ctx.DrawImage(lx, ly, resized, canvas.DPMM(1))
	}

	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

// bandColor tints the band with the first brand color, falling back to
// translucent black when none parses.
func bandColor(brandColors []string) color.NRGBA {
	if len(brandColors) > 0 {
		if c, err := parseHexColor(brandColors[0]); err == nil {
			c.A = 200
			return c
		}
	}
	return color.NRGBA{A: 190}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q (want #RRGGBB)", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
