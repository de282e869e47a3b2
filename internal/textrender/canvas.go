// Package textrender lays plain text out as a monochrome receipt bitmap.
package textrender

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/spherical/thermal-print/internal/raster"
)

// Layout fixes the canvas geometry.
type Layout struct {
	Width     int // canvas width in dots, the printer's addressable width
	Margin    int // left, top and bottom margin in dots
	LinePitch int // baseline-to-baseline distance in dots
	WrapWidth int // character budget per line
}

// DefaultLayout matches an 80 mm printer with a 12 px font.
func DefaultLayout() Layout {
	return Layout{
		Width:     576,
		Margin:    10,
		LinePitch: 14,
		WrapWidth: 42,
	}
}

// glyphThreshold decides which anti-aliased glyph pixels print.
const glyphThreshold = 128

// Canvas renders wrapped lines with a font chosen once at construction.
type Canvas struct {
	layout Layout
	font   ResolvedFont
}

// NewCanvas probes the font chain and memoizes the result.
func NewCanvas(layout Layout, fonts FontOptions) *Canvas {
	if fonts.Size <= 0 {
		fonts.Size = 12
	}
	return &Canvas{
		layout: layout,
		font:   ResolveFont(fonts),
	}
}

// NewCanvasWithFace builds a canvas around an already loaded face.
func NewCanvasWithFace(layout Layout, face ResolvedFont) *Canvas {
	return &Canvas{layout: layout, font: face}
}

// Layout returns the canvas geometry.
func (c *Canvas) Layout() Layout {
	return c.layout
}

// FontName reports which link of the fallback chain is in use.
func (c *Canvas) FontName() string {
	return c.font.Name
}

// Height is the exact canvas height for n lines: top and bottom margins plus
// one pitch per line.
func (c *Canvas) Height(lines int) int {
	return 2*c.layout.Margin + lines*c.layout.LinePitch
}

// Render draws lines black on white, left aligned, and binarizes the result.
func (c *Canvas) Render(lines []string) *raster.Bitmap {
	img := image.NewGray(image.Rect(0, 0, c.layout.Width, c.Height(len(lines))))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ascent := c.font.Face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: c.font.Face,
	}

	y := c.layout.Margin
	for _, line := range lines {
		d.Dot = fixed.P(c.layout.Margin, y+ascent)
		d.DrawString(line)
		y += c.layout.LinePitch
	}

	return raster.FromImage(img, glyphThreshold)
}
