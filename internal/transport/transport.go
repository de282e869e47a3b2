// Package transport delivers a raster file to the receipt printer.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
	"github.com/spherical/thermal-print/internal/raster"
)

// Device is an open printer.
type Device interface {
	// Image prints one raster band
	Image(b *raster.Bitmap) error
	// Cut feeds and cuts the paper
	Cut() error
	Close() error
}

// DeviceOpener claims the printer described by target.
type DeviceOpener interface {
	Open(ctx context.Context, target domain.PrinterTarget) (Device, error)
}

// ProgressFunc receives the number of bands sent so far and the total.
type ProgressFunc func(done, total int)

// Options tunes binarization and streaming.
type Options struct {
	Threshold  uint8 // luminance below this prints black
	BandHeight int   // rows per raster command
}

// DefaultOptions returns the stock streaming options.
func DefaultOptions() Options {
	return Options{Threshold: 128, BandHeight: 960}
}

// Transport rescales, binarizes and streams rasters to one printer.
type Transport struct {
	opener DeviceOpener
	target domain.PrinterTarget
	opts   Options
	logger *observability.Logger
}

// New creates a transport bound to target.
func New(opener DeviceOpener, target domain.PrinterTarget, opts Options, logger *observability.Logger) *Transport {
	if logger == nil {
		logger = observability.Nop()
	}
	if opts.BandHeight <= 0 {
		opts.BandHeight = DefaultOptions().BandHeight
	}
	if target.Width <= 0 {
		target.Width = domain.DefaultPrintWidth
	}
	return &Transport{
		opener: opener,
		target: target,
		opts:   opts,
		logger: logger.WithOperation("transport"),
	}
}

// Target returns the printer this transport prints to.
func (t *Transport) Target() domain.PrinterTarget {
	return t.target
}

// Prepare loads the raster at path and turns it into exactly the bitmap that
// would be printed: scaled down to the printer width, binarized and centered.
func (t *Transport) Prepare(path string) (*raster.Bitmap, error) {
	img, err := raster.Load(path)
	if err != nil {
		return nil, domain.PrintError(fmt.Sprintf("failed to load raster %s", path), err)
	}

	fitted, scaled := raster.FitWidth(img, t.target.Width)
	if scaled {
		t.logger.Debug().
			Int("from_width", img.Bounds().Dx()).
			Int("to_width", fitted.Bounds().Dx()).
			Int("height", fitted.Bounds().Dy()).
			Msg("Rescaled raster to printer width")
	}

	return raster.FromImage(fitted, t.opts.Threshold).CenterIn(t.target.Width), nil
}

// Print streams the raster at path to the printer and cuts the paper. The
// device is only opened once the raster is ready, and is always closed.
func (t *Transport) Print(ctx context.Context, path string, progress ProgressFunc) error {
	logger := t.logger.WithContext(ctx)

	bitmap, err := t.Prepare(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.CancelledError(err)
	}

	dev, err := t.opener.Open(ctx, t.target)
	if err != nil {
		if ctx.Err() != nil {
			return domain.CancelledError(ctx.Err())
		}
		return domain.DeviceUnavailableError(fmt.Sprintf("printer %s unavailable", t.target), err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to release printer")
		}
	}()

	start := time.Now()
	total := (bitmap.Height + t.opts.BandHeight - 1) / t.opts.BandHeight
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return domain.CancelledError(err)
		}
		y0 := i * t.opts.BandHeight
		if err := dev.Image(bitmap.Band(y0, y0+t.opts.BandHeight)); err != nil {
			if ctx.Err() != nil {
				return domain.CancelledError(ctx.Err())
			}
			return domain.PrintError(fmt.Sprintf("failed sending band %d of %d", i+1, total), err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if err := dev.Cut(); err != nil {
		return domain.PrintError("failed to cut paper", err)
	}

	logger.Info().
		Str("printer", t.target.String()).
		Int("width", bitmap.Width).
		Int("height", bitmap.Height).
		Int("bands", total).
		Dur("duration", time.Since(start)).
		Msg("Printed raster")
	return nil
}
