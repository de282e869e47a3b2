// Package raster holds the 1-bit bitmap printed by the receipt printer and
// the image operations that produce it.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Bitmap is a 1-bit-per-pixel image. Rows are packed MSB first; a set bit
// is a black (printed) dot.
type Bitmap struct {
	Width  int
	Height int
	Stride int // bytes per row
	Bits   []byte
}

// NewBitmap returns an all-white bitmap.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := (width + 7) / 8
	return &Bitmap{
		Width:  width,
		Height: height,
		Stride: stride,
		Bits:   make([]byte, stride*height),
	}
}

// Black reports whether the dot at (x, y) is printed.
func (b *Bitmap) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Bits[y*b.Stride+x/8]&(0x80>>uint(x%8)) != 0
}

// Set marks the dot at (x, y) black or white.
func (b *Bitmap) Set(x, y int, black bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := y*b.Stride + x/8
	mask := byte(0x80 >> uint(x%8))
	if black {
		b.Bits[i] |= mask
	} else {
		b.Bits[i] &^= mask
	}
}

// Row returns the packed bytes of row y.
func (b *Bitmap) Row(y int) []byte {
	return b.Bits[y*b.Stride : (y+1)*b.Stride]
}

// Band returns rows [y0, y1) as a new bitmap sharing no memory with b.
func (b *Bitmap) Band(y0, y1 int) *Bitmap {
	if y0 < 0 {
		y0 = 0
	}
	if y1 > b.Height {
		y1 = b.Height
	}
	if y1 < y0 {
		y1 = y0
	}
	out := &Bitmap{
		Width:  b.Width,
		Height: y1 - y0,
		Stride: b.Stride,
		Bits:   make([]byte, (y1-y0)*b.Stride),
	}
	copy(out.Bits, b.Bits[y0*b.Stride:y1*b.Stride])
	return out
}

// CenterIn pads b with white columns on both sides so it is exactly width
// dots wide. Bitmaps already at least that wide are returned unchanged.
func (b *Bitmap) CenterIn(width int) *Bitmap {
	if b.Width >= width {
		return b
	}
	offset := (width - b.Width) / 2
	out := NewBitmap(width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Black(x, y) {
				out.Set(x+offset, y, true)
			}
		}
	}
	return out
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model {
	return Palette
}

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	if b.Black(x, y) {
		return color.Black
	}
	return color.White
}

// Palette is the two-colour palette used when persisting bitmaps.
var Palette = color.Palette{color.White, color.Black}

// Paletted converts b to a two-colour paletted image so encoders emit the
// smallest bit depth they support.
func (b *Bitmap) Paletted() *image.Paletted {
	img := image.NewPaletted(b.Bounds(), Palette)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Black(x, y) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("bitmap %dx%d", b.Width, b.Height)
}

// FromImage binarizes img: pixels whose luminance is below threshold (0-255)
// become black. Transparent pixels are composited over white first.
func FromImage(img image.Image, threshold uint8) *Bitmap {
	if bm, ok := img.(*Bitmap); ok {
		return bm
	}
	bounds := img.Bounds()
	out := NewBitmap(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if luminance(img.At(bounds.Min.X+x, bounds.Min.Y+y)) < threshold {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// luminance returns the Rec. 601 luma of c over a white background.
func luminance(c color.Color) uint8 {
	r, g, b, a := c.RGBA()
	// composite over white: c + (1 - a) * white
	white := uint32(0xffff) - a
	r += white
	g += white
	b += white
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	if y > 255 {
		y = 255
	}
	return uint8(y)
}
