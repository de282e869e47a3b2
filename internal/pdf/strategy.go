package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
)

const (
	CroppedName = "cropped.pdf"
	OutputName  = "page.bmp"
)

// Options configures the PDF strategy.
type Options struct {
	Crop   bool
	Raster domain.RasterOptions
}

// Strategy normalizes a PDF into one stacked bitmap: optional margin crop,
// then rasterization.
type Strategy struct {
	cropper    domain.Cropper
	rasterizer domain.PageRasterizer
	validator  *Validator
	opts       Options
	logger     *observability.Logger
}

// NewStrategy creates a PDF strategy. cropper may be nil when cropping is
// disabled.
func NewStrategy(cropper domain.Cropper, rasterizer domain.PageRasterizer, opts Options, logger *observability.Logger) *Strategy {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Strategy{
		cropper:    cropper,
		rasterizer: rasterizer,
		validator:  NewValidator(logger),
		opts:       opts,
		logger:     logger.WithOperation("pdf"),
	}
}

// Kind implements domain.Strategy.
func (s *Strategy) Kind() domain.DocumentKind {
	return domain.KindPDF
}

// Convert implements domain.Strategy.
func (s *Strategy) Convert(ctx context.Context, doc domain.SourceDocument, ws domain.Workspace) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.CancelledError(err)
	}
	if err := s.validator.ValidatePDFPath(doc.Path); err != nil {
		return "", err
	}
	if err := s.validator.ValidateOptions(s.opts.Raster); err != nil {
		return "", err
	}

	logger := s.logger.WithContext(ctx)
	input := doc.Path

	if s.opts.Crop && s.cropper != nil {
		cropped := ws.Path(CroppedName)
		start := time.Now()
		err := s.cropper.Crop(ctx, input, cropped)
		switch {
		case err == nil:
			logger.Debug().Dur("duration", time.Since(start)).Msg("Cropped PDF margins")
			input = cropped
		case ctx.Err() != nil:
			return "", domain.CancelledError(ctx.Err())
		default:
			logger.Warn().Err(err).Msg("Margin crop failed, continuing with original PDF")
		}
	}

	out := ws.Path(OutputName)
	start := time.Now()
	if err := s.rasterizer.Rasterize(ctx, input, out, s.opts.Raster); err != nil {
		if ctx.Err() != nil {
			return "", domain.CancelledError(ctx.Err())
		}
		return "", domain.ConversionError(fmt.Sprintf("failed to rasterize %s", doc.Path), err)
	}

	logger.Debug().
		Int("dpi", s.opts.Raster.DPI).
		Dur("duration", time.Since(start)).
		Msg("Rasterized PDF")
	return out, nil
}
