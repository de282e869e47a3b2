// Package printer is the library entry point for printing documents on a USB
// receipt printer.
package printer

import (
	"context"

	"github.com/spherical/thermal-print/internal/config"
	"github.com/spherical/thermal-print/internal/dispatch"
	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
	"github.com/spherical/thermal-print/internal/pdf"
	"github.com/spherical/thermal-print/internal/pipeline"
	"github.com/spherical/thermal-print/internal/textrender"
	"github.com/spherical/thermal-print/internal/transport"
)

// Re-export job and event types for public API
type (
	Config        = config.Config
	StreamEvent   = domain.StreamEvent
	EventType     = domain.EventType
	Progress      = domain.Progress
	PrintJob      = domain.PrintJob
	JobState      = domain.JobState
	ErrorType     = domain.ErrorType
	PrinterTarget = domain.PrinterTarget
	DeviceOpener  = transport.DeviceOpener
	Device        = transport.Device
)

// Event type constants
const (
	EventStart       = domain.EventStart
	EventStateChange = domain.EventStateChange
	EventProgress    = domain.EventProgress
	EventError       = domain.EventError
	EventComplete    = domain.EventComplete
)

// Job state constants
const (
	StateDispatching = domain.StateDispatching
	StateConverting  = domain.StateConverting
	StatePrinting    = domain.StatePrinting
	StateDone        = domain.StateDone
	StateFailed      = domain.StateFailed
	StateCancelled   = domain.StateCancelled
)

// Rasterizer names accepted in PDFConfig.Rasterizer
const (
	RasterizerMagick = "magick"
	RasterizerFitz   = "fitz"
)

// Client is the main entry point for the thermal print library
type Client struct {
	controller *pipeline.Controller
	canvas     *textrender.Canvas
	target     domain.PrinterTarget
}

// NewClient creates a client that prints over USB.
func NewClient(cfg *Config, logger *observability.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return NewClientWithOpener(cfg, transport.NewUSBOpener(cfg.Printer.CutFeedLines, logger), logger)
}

// NewClientWithOpener creates a client that reaches the printer through
// opener instead of USB.
func NewClientWithOpener(cfg *Config, opener DeviceOpener, logger *observability.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.Nop()
	}

	canvas := textrender.NewCanvas(textrender.Layout{
		Width:     cfg.Printer.Width,
		Margin:    cfg.Text.Margin,
		LinePitch: cfg.Text.LinePitch,
		WrapWidth: cfg.Text.WrapWidth,
	}, textrender.FontOptions{
		Size:  cfg.Text.FontSize,
		Paths: cfg.Text.FontPaths,
		Dirs:  cfg.Text.FontDirs,
	})

	runner := pdf.NewExecRunner(cfg.PDF.ToolTimeout)
	var cropper domain.Cropper
	if cfg.PDF.Crop {
		cropper = pdf.NewPDFCrop(cfg.PDF.PDFCropBin, runner)
	}

	dispatcher := dispatch.New(
		pdf.NewStrategy(cropper, newRasterizer(cfg, runner), pdf.Options{
			Crop:   cfg.PDF.Crop,
			Raster: cfg.RasterOptions(),
		}, logger),
		textrender.NewStrategy(canvas, logger),
		dispatch.ImageStrategy{},
	)

	target := cfg.Target()
	tr := transport.New(opener, target, transport.Options{
		Threshold:  uint8(cfg.Printer.Threshold),
		BandHeight: cfg.Printer.BandHeight,
	}, logger)

	logger.Debug().
		Str("printer", target.String()).
		Str("rasterizer", cfg.PDF.Rasterizer).
		Bool("crop", cfg.PDF.Crop).
		Str("font", canvas.FontName()).
		Msg("Print client ready")

	return &Client{
		controller: pipeline.NewController(dispatcher, tr, cfg.WorkDir, logger),
		canvas:     canvas,
		target:     target,
	}, nil
}

func newRasterizer(cfg *Config, runner pdf.Runner) domain.PageRasterizer {
	if cfg.PDF.Rasterizer == RasterizerFitz {
		return pdf.NewFitzRasterizer()
	}
	return pdf.NewMagickRasterizer(cfg.PDF.ConvertBin, runner)
}

// Print sends the document at path to the printer. Events are delivered to
// events when it is non-nil; a full channel drops events rather than
// blocking the job.
func (c *Client) Print(ctx context.Context, path string, events chan<- StreamEvent) (*PrintJob, error) {
	return c.controller.Run(ctx, path, events)
}

// Render writes the bitmap that Print would send for path to out (.png or
// .bmp).
func (c *Client) Render(ctx context.Context, path, out string, events chan<- StreamEvent) (*PrintJob, error) {
	return c.controller.Render(ctx, path, out, events)
}

// Target returns the configured printer.
func (c *Client) Target() PrinterTarget {
	return c.target
}

// FontName reports the font chosen for text documents.
func (c *Client) FontName() string {
	return c.canvas.FontName()
}

// SupportedExtensions lists the file extensions the client accepts.
func SupportedExtensions() []string {
	return domain.SupportedExtensions()
}

// ErrorTypeOf returns the classification of an error returned by the client.
func ErrorTypeOf(err error) ErrorType {
	return domain.TypeOf(err)
}

// IsCancellation reports whether err means the job was cancelled.
func IsCancellation(err error) bool {
	return domain.IsCancellation(err)
}
