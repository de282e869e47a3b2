// Package config provides unified configuration loading for thermal-print.
// Supports YAML files, .env files, environment variables, and CLI overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/thermal-print/internal/domain"
)

// Config holds all configuration for a print run.
type Config struct {
	Printer       PrinterConfig       `yaml:"printer"`
	PDF           PDFConfig           `yaml:"pdf"`
	Text          TextConfig          `yaml:"text"`
	WorkDir       string              `yaml:"work_dir"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PrinterConfig holds the USB identity and geometry of the receipt printer.
type PrinterConfig struct {
	VendorID     USBID `yaml:"vendor_id"`
	ProductID    USBID `yaml:"product_id"`
	Interface    int   `yaml:"interface"`
	InEndpoint   USBID `yaml:"in_endpoint"`
	OutEndpoint  USBID `yaml:"out_endpoint"`
	Width        int   `yaml:"width"`
	Threshold    int   `yaml:"threshold"` // 0-255 luminance cut for binarization
	BandHeight   int   `yaml:"band_height"`
	CutFeedLines int   `yaml:"cut_feed_lines"`
}

// PDFConfig holds PDF normalization settings.
type PDFConfig struct {
	Crop             bool          `yaml:"crop"`
	Rasterizer       string        `yaml:"rasterizer"` // magick or fitz
	ConvertBin       string        `yaml:"convert_bin"`
	PDFCropBin       string        `yaml:"pdfcrop_bin"`
	Density          int           `yaml:"density"`
	ThresholdPercent int           `yaml:"threshold_percent"`
	ToolTimeout      time.Duration `yaml:"tool_timeout"`
}

// TextConfig holds plain-text rendering settings.
type TextConfig struct {
	WrapWidth int      `yaml:"wrap_width"`
	FontSize  float64  `yaml:"font_size"`
	LinePitch int      `yaml:"line_pitch"`
	Margin    int      `yaml:"margin"`
	FontPaths []string `yaml:"font_paths"`
	FontDirs  []string `yaml:"font_dirs"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from an optional YAML file, then applies .env and
// environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the stock receipt-printer configuration.
func DefaultConfig() *Config {
	return &Config{
		Printer: PrinterConfig{
			VendorID:     USBID(domain.DefaultVendorID),
			ProductID:    USBID(domain.DefaultProductID),
			Interface:    domain.DefaultInterface,
			InEndpoint:   USBID(domain.DefaultInEndpoint),
			OutEndpoint:  USBID(domain.DefaultOutEndpoint),
			Width:        domain.DefaultPrintWidth,
			Threshold:    128,
			BandHeight:   960,
			CutFeedLines: 6,
		},
		PDF: PDFConfig{
			Crop:             true,
			Rasterizer:       "magick",
			ConvertBin:       "convert",
			PDFCropBin:       "pdfcrop",
			Density:          300,
			ThresholdPercent: 60,
			ToolTimeout:      2 * time.Minute,
		},
		Text: TextConfig{
			WrapWidth: 42,
			FontSize:  12,
			LinePitch: 14,
			Margin:    10,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Printer.Width < 8 {
		return domain.ConfigError(fmt.Sprintf("invalid printer width: %d", c.Printer.Width), nil)
	}

	if c.Printer.Threshold < 0 || c.Printer.Threshold > 255 {
		return domain.ConfigError(fmt.Sprintf("printer threshold must be between 0 and 255, got %d", c.Printer.Threshold), nil)
	}

	if c.Printer.BandHeight < 1 {
		return domain.ConfigError("band_height must be positive", nil)
	}

	if c.Printer.InEndpoint&0x80 == 0 {
		return domain.ConfigError(fmt.Sprintf("in_endpoint %s is not an IN address", c.Printer.InEndpoint), nil)
	}

	if c.Printer.OutEndpoint&0x80 != 0 {
		return domain.ConfigError(fmt.Sprintf("out_endpoint %s is not an OUT address", c.Printer.OutEndpoint), nil)
	}

	if c.PDF.Rasterizer != "magick" && c.PDF.Rasterizer != "fitz" {
		return domain.ConfigError(fmt.Sprintf("invalid pdf rasterizer: %s", c.PDF.Rasterizer), nil)
	}

	if c.PDF.Density < 72 || c.PDF.Density > 1200 {
		return domain.ConfigError(fmt.Sprintf("pdf density must be between 72 and 1200, got %d", c.PDF.Density), nil)
	}

	if c.PDF.ThresholdPercent < 1 || c.PDF.ThresholdPercent > 99 {
		return domain.ConfigError(fmt.Sprintf("pdf threshold_percent must be between 1 and 99, got %d", c.PDF.ThresholdPercent), nil)
	}

	if c.PDF.ToolTimeout <= 0 {
		return domain.ConfigError("pdf tool_timeout must be positive", nil)
	}

	if c.Text.WrapWidth < 1 {
		return domain.ConfigError("text wrap_width must be positive", nil)
	}

	if c.Text.LinePitch < 1 || c.Text.Margin < 0 || c.Text.FontSize <= 0 {
		return domain.ConfigError("text layout values must be positive", nil)
	}

	return nil
}

// Target returns the printer target described by the configuration.
func (c *Config) Target() domain.PrinterTarget {
	return domain.PrinterTarget{
		VendorID:    uint16(c.Printer.VendorID),
		ProductID:   uint16(c.Printer.ProductID),
		Interface:   c.Printer.Interface,
		InEndpoint:  uint8(c.Printer.InEndpoint),
		OutEndpoint: uint8(c.Printer.OutEndpoint),
		Width:       c.Printer.Width,
	}
}

// RasterOptions returns the PDF rasterization settings.
func (c *Config) RasterOptions() domain.RasterOptions {
	return domain.RasterOptions{
		DPI:              c.PDF.Density,
		ThresholdPercent: c.PDF.ThresholdPercent,
		Trim:             true,
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("THERMAL_VENDOR_ID"); v != "" {
		id, err := ParseUSBID(v)
		if err != nil {
			return domain.ConfigError("THERMAL_VENDOR_ID", err)
		}
		cfg.Printer.VendorID = id
	}

	if v := os.Getenv("THERMAL_PRODUCT_ID"); v != "" {
		id, err := ParseUSBID(v)
		if err != nil {
			return domain.ConfigError("THERMAL_PRODUCT_ID", err)
		}
		cfg.Printer.ProductID = id
	}

	if v := os.Getenv("THERMAL_NO_CROP"); v != "" {
		if noCrop, err := strconv.ParseBool(v); err == nil {
			cfg.PDF.Crop = !noCrop
		}
	}

	if v := os.Getenv("THERMAL_RASTERIZER"); v != "" {
		cfg.PDF.Rasterizer = strings.ToLower(v)
	}

	if v := os.Getenv("THERMAL_CONVERT_BIN"); v != "" {
		cfg.PDF.ConvertBin = v
	}

	if v := os.Getenv("THERMAL_PDFCROP_BIN"); v != "" {
		cfg.PDF.PDFCropBin = v
	}

	if v := os.Getenv("THERMAL_WORK_DIR"); v != "" {
		cfg.WorkDir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}
