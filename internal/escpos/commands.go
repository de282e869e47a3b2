// Package escpos encodes the subset of ESC/POS needed to print raster images
// on a receipt printer.
package escpos

import (
	"fmt"

	"github.com/spherical/thermal-print/internal/raster"
)

const (
	esc = 0x1b
	gs  = 0x1d
)

// MaxRasterHeight is the largest height a single GS v 0 command can carry.
const MaxRasterHeight = 0xffff

// Init resets the printer (ESC @).
func Init() []byte {
	return []byte{esc, '@'}
}

// Feed advances the paper by n lines (ESC d n).
func Feed(n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return []byte{esc, 'd', byte(n)}
}

// Cut performs a full cut (GS V 0).
func Cut() []byte {
	return []byte{gs, 'V', 0}
}

// RasterHeader returns the GS v 0 header for a normal-density raster image.
// Width is in bytes, height in dots, both little endian.
func RasterHeader(widthBytes, height int) []byte {
	header := []byte{gs, 'v', '0', 0}
	header = append(header, lowHigh(widthBytes, 2)...)
	return append(header, lowHigh(height, 2)...)
}

// lowHigh encodes n as size bytes, least significant first.
func lowHigh(n, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(n >> (8 * i))
	}
	return out
}

// Raster encodes b as a single GS v 0 command.
func Raster(b *raster.Bitmap) ([]byte, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("empty bitmap %dx%d", b.Width, b.Height)
	}
	if b.Height > MaxRasterHeight || b.Stride > 0xffff {
		return nil, fmt.Errorf("bitmap %dx%d exceeds raster command limits", b.Width, b.Height)
	}

	out := make([]byte, 0, 8+len(b.Bits))
	out = append(out, RasterHeader(b.Stride, b.Height)...)
	out = append(out, b.Bits...)
	return out, nil
}
