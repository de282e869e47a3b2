package raster

import (
	"image"

	"github.com/nfnt/resize"
)

// FitWidth scales img down to maxWidth, keeping the aspect ratio, with a
// Lanczos3 filter. The new height is floor(h * maxWidth / w), never below 1.
// Images no wider than maxWidth are returned as is and scaled is false.
func FitWidth(img image.Image, maxWidth int) (out image.Image, scaled bool) {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img, false
	}
	ratio := float64(maxWidth) / float64(b.Dx())
	height := int(float64(b.Dy()) * ratio)
	if height < 1 {
		height = 1
	}
	return resize.Resize(uint(maxWidth), uint(height), img, resize.Lanczos3), true
}

// Grayscale converts img to 8-bit gray, compositing transparency over white.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = luminance(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// Normalize stretches the gray levels of g in place so the darkest pixel
// becomes 0 and the lightest 255. Flat images are left untouched.
func Normalize(g *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range g.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return
	}
	span := int(hi) - int(lo)
	for i, v := range g.Pix {
		g.Pix[i] = uint8((int(v) - int(lo)) * 255 / span)
	}
}

// ThresholdPercent binarizes g the way ImageMagick's -threshold does: only
// levels strictly above percent of full scale stay white.
func ThresholdPercent(g *image.Gray, percent int) *Bitmap {
	level := percent * 255 / 100
	if level > 255 {
		level = 255
	}
	if level < 0 {
		level = 0
	}
	b := g.Bounds()
	out := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+b.Dx()]
		for x, v := range row {
			if int(v) <= level {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Trim crops away border rows and columns that match the colour of the top
// left dot. A uniform bitmap collapses to a single white dot.
func (b *Bitmap) Trim() *Bitmap {
	if b.Width == 0 || b.Height == 0 {
		return b
	}
	bg := b.Black(0, 0)
	minX, minY, maxX, maxY := b.Width, b.Height, -1, -1
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Black(x, y) == bg {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return NewBitmap(1, 1)
	}
	out := NewBitmap(maxX-minX+1, maxY-minY+1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if b.Black(x, y) {
				out.Set(x-minX, y-minY, true)
			}
		}
	}
	return out
}

// StackVertical appends bitmaps top to bottom, left aligned on a white
// canvas as wide as the widest input.
func StackVertical(parts ...*Bitmap) *Bitmap {
	width, height := 0, 0
	for _, p := range parts {
		if p.Width > width {
			width = p.Width
		}
		height += p.Height
	}
	out := NewBitmap(width, height)
	y0 := 0
	for _, p := range parts {
		if p.Stride == out.Stride {
			copy(out.Bits[y0*out.Stride:], p.Bits)
		} else {
			for y := 0; y < p.Height; y++ {
				copy(out.Bits[(y0+y)*out.Stride:], p.Row(y))
			}
		}
		y0 += p.Height
	}
	return out
}

var _ image.Image = (*Bitmap)(nil)
