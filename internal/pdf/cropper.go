package pdf

import (
	"context"
	"fmt"
	"os"
)

// PDFCrop trims page margins with the pdfcrop tool.
type PDFCrop struct {
	bin    string
	runner Runner
}

// NewPDFCrop creates a cropper invoking bin (usually "pdfcrop").
func NewPDFCrop(bin string, runner Runner) *PDFCrop {
	if bin == "" {
		bin = "pdfcrop"
	}
	return &PDFCrop{bin: bin, runner: runner}
}

// Crop implements domain.Cropper.
func (c *PDFCrop) Crop(ctx context.Context, inputPath, outputPath string) error {
	if _, err := c.runner.Run(ctx, c.bin, inputPath, outputPath); err != nil {
		return err
	}
	if err := nonEmptyFile(outputPath); err != nil {
		return fmt.Errorf("%s produced no output: %w", c.bin, err)
	}
	return nil
}

func nonEmptyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}
