package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/raster"
)

// FitzRasterizer renders PDFs in-process with MuPDF through go-fitz and
// applies the gray, normalize, threshold and trim steps itself.
type FitzRasterizer struct{}

// NewFitzRasterizer creates an in-process rasterizer.
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// Rasterize implements domain.PageRasterizer.
func (r *FitzRasterizer) Rasterize(ctx context.Context, inputPath, outputPath string, opts domain.RasterOptions) error {
	doc, err := fitz.New(inputPath)
	if err != nil {
		return fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return fmt.Errorf("PDF has no pages")
	}

	pages := make([]*raster.Bitmap, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, float64(opts.DPI))
		if err != nil {
			return fmt.Errorf("render page %d: %w", pageNum+1, err)
		}

		gray := raster.Grayscale(img)
		raster.Normalize(gray)
		page := raster.ThresholdPercent(gray, opts.ThresholdPercent)
		if opts.Trim {
			page = page.Trim()
		}
		pages = append(pages, page)
	}

	if err := raster.Save(outputPath, raster.StackVertical(pages...)); err != nil {
		return fmt.Errorf("write bitmap: %w", err)
	}
	return nil
}
