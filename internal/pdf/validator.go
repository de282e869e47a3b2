package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
)

// largePDFBytes triggers a warning; such files rasterize slowly at 300 DPI.
const largePDFBytes = 100 * 1024 * 1024

// Validator provides input validation for PDF rasterization
type Validator struct {
	logger *observability.Logger
}

// NewValidator creates a new validator instance
func NewValidator(logger *observability.Logger) *Validator {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Validator{logger: logger}
}

// ValidatePDFPath validates that a file path is valid and points to a PDF
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	if info.Size() > largePDFBytes {
		v.logger.Warn().
			Str("path", path).
			Int("size_mb", int(info.Size()/(1024*1024))).
			Msg("PDF file is very large, rasterization may take a while")
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

// ValidateOptions validates rasterization parameters
func (v *Validator) ValidateOptions(opts domain.RasterOptions) error {
	if opts.DPI < 72 || opts.DPI > 1200 {
		return domain.ValidationError(fmt.Sprintf("density must be between 72 and 1200, got %d", opts.DPI), nil)
	}
	if opts.ThresholdPercent < 1 || opts.ThresholdPercent > 99 {
		return domain.ValidationError(fmt.Sprintf("threshold must be between 1 and 99 percent, got %d", opts.ThresholdPercent), nil)
	}
	return nil
}
