package pdf

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spherical/thermal-print/internal/domain"
)

// MagickRasterizer renders PDFs with ImageMagick.
type MagickRasterizer struct {
	bin    string
	runner Runner
}

// NewMagickRasterizer creates a rasterizer invoking bin ("convert" on
// ImageMagick 6, "magick" on 7).
func NewMagickRasterizer(bin string, runner Runner) *MagickRasterizer {
	if bin == "" {
		bin = "convert"
	}
	return &MagickRasterizer{bin: bin, runner: runner}
}

// Args builds the ImageMagick command line. Density has to precede the input
// to take effect while the PDF is read; -append stacks all pages.
func (r *MagickRasterizer) Args(inputPath, outputPath string, opts domain.RasterOptions) []string {
	args := []string{
		"-density", strconv.Itoa(opts.DPI),
		inputPath,
		"-colorspace", "gray",
		"-normalize",
		"-threshold", fmt.Sprintf("%d%%", opts.ThresholdPercent),
	}
	if opts.Trim {
		args = append(args, "-trim")
	}
	args = append(args, "+repage", "-append", outputPath)
	return args
}

// Rasterize implements domain.PageRasterizer.
func (r *MagickRasterizer) Rasterize(ctx context.Context, inputPath, outputPath string, opts domain.RasterOptions) error {
	if _, err := r.runner.Run(ctx, r.bin, r.Args(inputPath, outputPath, opts)...); err != nil {
		return err
	}
	if err := nonEmptyFile(outputPath); err != nil {
		return fmt.Errorf("%s produced no bitmap: %w", r.bin, err)
	}
	return nil
}
