package raster

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmap_SetAndPacking(t *testing.T) {
	b := NewBitmap(10, 2)
	assert.Equal(t, 2, b.Stride)

	b.Set(0, 0, true)
	b.Set(9, 1, true)
	b.Set(42, 42, true) // out of range is ignored

	assert.Equal(t, byte(0x80), b.Row(0)[0])
	assert.Equal(t, byte(0x40), b.Row(1)[1])
	assert.True(t, b.Black(9, 1))
	assert.False(t, b.Black(8, 1))

	b.Set(0, 0, false)
	assert.False(t, b.Black(0, 0))
}

func TestFromImage_Threshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.Gray{Y: 100})
	img.Set(2, 0, color.Gray{Y: 200})
	img.Set(3, 0, color.NRGBA{A: 0}) // transparent reads as white

	b := FromImage(img, 128)
	assert.True(t, b.Black(0, 0))
	assert.True(t, b.Black(1, 0))
	assert.False(t, b.Black(2, 0))
	assert.False(t, b.Black(3, 0))
}

func TestFitWidth_WideImageScaledTo576(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{1200, 800},
		{577, 1000},
		{2480, 351},
		{3000, 1},
	}

	for _, tt := range tests {
		img := image.NewGray(image.Rect(0, 0, tt.w, tt.h))
		out, scaled := FitWidth(img, 576)
		require.True(t, scaled)

		b := out.Bounds()
		assert.Equal(t, 576, b.Dx())

		wantH := float64(tt.h) * 576 / float64(tt.w)
		assert.LessOrEqual(t, math.Abs(float64(b.Dy())-wantH), 1.0, "%dx%d -> %dx%d", tt.w, tt.h, b.Dx(), b.Dy())
		assert.GreaterOrEqual(t, b.Dy(), 1)
	}
}

func TestFitWidth_NarrowImageUntouched(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 300, 40))
	out, scaled := FitWidth(img, 576)
	assert.False(t, scaled)
	assert.Same(t, img, out)
}

func TestCenterIn(t *testing.T) {
	b := NewBitmap(4, 1)
	b.Set(0, 0, true)
	b.Set(3, 0, true)

	c := b.CenterIn(10)
	assert.Equal(t, 10, c.Width)
	assert.True(t, c.Black(3, 0))
	assert.True(t, c.Black(6, 0))
	assert.False(t, c.Black(0, 0))

	assert.Same(t, b, b.CenterIn(4))
}

func TestBand(t *testing.T) {
	b := NewBitmap(8, 5)
	b.Set(1, 3, true)

	band := b.Band(2, 4)
	assert.Equal(t, 2, band.Height)
	assert.True(t, band.Black(1, 1))

	band.Set(1, 1, false)
	assert.True(t, b.Black(1, 3), "band must not alias the source")

	assert.Equal(t, 1, b.Band(4, 99).Height)
}

func TestTrim(t *testing.T) {
	b := NewBitmap(20, 10)
	b.Set(5, 2, true)
	b.Set(8, 6, true)

	trimmed := b.Trim()
	assert.Equal(t, 4, trimmed.Width)
	assert.Equal(t, 5, trimmed.Height)
	assert.True(t, trimmed.Black(0, 0))
	assert.True(t, trimmed.Black(3, 4))

	blank := NewBitmap(20, 10).Trim()
	assert.Equal(t, 1, blank.Width)
	assert.Equal(t, 1, blank.Height)
}

func TestNormalizeAndThreshold(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.Pix = []uint8{100, 150, 200}

	Normalize(g)
	assert.Equal(t, []uint8{0, 127, 255}, g.Pix)

	b := ThresholdPercent(g, 60)
	assert.True(t, b.Black(0, 0))
	assert.True(t, b.Black(1, 0))
	assert.False(t, b.Black(2, 0))
}

func TestThresholdPercent_BoundaryPrintsBlack(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	g.Pix = []uint8{152, 153, 154, 0, 255, 153}

	b := ThresholdPercent(g, 60)
	assert.True(t, b.Black(0, 0))
	assert.True(t, b.Black(1, 0), "level 153 is not above 60 percent")
	assert.False(t, b.Black(2, 0))
	assert.True(t, b.Black(0, 1))
	assert.False(t, b.Black(1, 1))
	assert.True(t, b.Black(2, 1))
}

func TestStackVertical(t *testing.T) {
	a := NewBitmap(8, 2)
	a.Set(7, 1, true)
	b := NewBitmap(16, 3)
	b.Set(15, 0, true)

	s := StackVertical(a, b)
	assert.Equal(t, 16, s.Width)
	assert.Equal(t, 5, s.Height)
	assert.True(t, s.Black(7, 1))
	assert.True(t, s.Black(15, 2))
	assert.False(t, s.Black(8, 1))
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	b := NewBitmap(9, 3)
	b.Set(4, 1, true)

	for _, name := range []string{"out.bmp", "out.png"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, b))

		img, err := Load(path)
		require.NoError(t, err)
		back := FromImage(img, 128)
		assert.Equal(t, b.Width, back.Width, name)
		assert.Equal(t, b.Height, back.Height, name)
		assert.Equal(t, b.Bits, back.Bits, name)
	}

	assert.Error(t, Save(filepath.Join(dir, "out.gif"), b))
	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
