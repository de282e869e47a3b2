package raster

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Load decodes a BMP, PNG or JPEG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %s (%s) has no pixels", filepath.Base(path), format)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the extension.
// Bitmaps are written as two-colour paletted images.
func Save(path string, img image.Image) error {
	if bm, ok := img.(*Bitmap); ok {
		img = bm.Paletted()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		err = fmt.Errorf("unsupported image extension %q", ext)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return nil
}
