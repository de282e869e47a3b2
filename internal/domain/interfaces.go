package domain

import "context"

// Workspace hands out paths inside a job's private temporary directory
type Workspace interface {
	Path(name string) string
}

// Strategy converts one kind of document into a printable raster file
type Strategy interface {
	// Kind reports which documents the strategy handles
	Kind() DocumentKind

	// Convert produces a raster image file and returns its path. Intermediate
	// files must be created inside ws.
	Convert(ctx context.Context, doc SourceDocument, ws Workspace) (string, error)
}

// PageRasterizer turns a PDF into a single monochrome bitmap file
type PageRasterizer interface {
	// Rasterize renders every page of inputPath, stacked top to bottom, into outputPath
	Rasterize(ctx context.Context, inputPath, outputPath string, opts RasterOptions) error
}

// Cropper removes page margins from a PDF
type Cropper interface {
	// Crop writes a margin-free copy of inputPath to outputPath
	Crop(ctx context.Context, inputPath, outputPath string) error
}

// RasterOptions configures PDF rasterization
type RasterOptions struct {
	DPI              int
	ThresholdPercent int // luminance strictly above this percentage becomes white
	Trim             bool
}

// DefaultRasterOptions returns the settings tuned for thermal output
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		DPI:              300,
		ThresholdPercent: 60,
		Trim:             true,
	}
}
