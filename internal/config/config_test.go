package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spherical/thermal-print/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	target := cfg.Target()
	assert.Equal(t, uint16(0x20d1), target.VendorID)
	assert.Equal(t, uint16(0x7008), target.ProductID)
	assert.Equal(t, 0, target.Interface)
	assert.Equal(t, uint8(0x81), target.InEndpoint)
	assert.Equal(t, uint8(0x02), target.OutEndpoint)
	assert.Equal(t, 576, target.Width)

	assert.True(t, cfg.PDF.Crop)
	assert.Equal(t, 42, cfg.Text.WrapWidth)
	assert.Equal(t, domain.DefaultRasterOptions(), cfg.RasterOptions())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printer.yaml")
	content := `
printer:
  vendor_id: "0x0416"
  product_id: 20497
  width: 384
pdf:
  crop: false
  rasterizer: fitz
  tool_timeout: 30s
text:
  wrap_width: 32
  font_dirs: ["/opt/fonts"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, USBID(0x0416), cfg.Printer.VendorID)
	assert.Equal(t, USBID(20497), cfg.Printer.ProductID)
	assert.Equal(t, 384, cfg.Printer.Width)
	assert.False(t, cfg.PDF.Crop)
	assert.Equal(t, "fitz", cfg.PDF.Rasterizer)
	assert.Equal(t, 30*time.Second, cfg.PDF.ToolTimeout)
	assert.Equal(t, 32, cfg.Text.WrapWidth)
	assert.Equal(t, []string{"/opt/fonts"}, cfg.Text.FontDirs)
	// untouched sections keep their defaults
	assert.Equal(t, 300, cfg.PDF.Density)
	assert.Equal(t, USBID(0x81), cfg.Printer.InEndpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("THERMAL_VENDOR_ID", "04b8")
	t.Setenv("THERMAL_PRODUCT_ID", "0x0e15")
	t.Setenv("THERMAL_NO_CROP", "true")
	t.Setenv("THERMAL_RASTERIZER", "FITZ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, USBID(0x04b8), cfg.Printer.VendorID)
	assert.Equal(t, USBID(0x0e15), cfg.Printer.ProductID)
	assert.False(t, cfg.PDF.Crop)
	assert.Equal(t, "fitz", cfg.PDF.Rasterizer)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	})

	t.Run("bad vendor env", func(t *testing.T) {
		t.Setenv("THERMAL_VENDOR_ID", "zz")
		_, err := Load("")
		assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	})

	t.Run("bad rasterizer", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pdf:\n  rasterizer: ghostscript\n"), 0o644))
		_, err := Load(path)
		assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"narrow width", func(c *Config) { c.Printer.Width = 0 }},
		{"threshold range", func(c *Config) { c.Printer.Threshold = 300 }},
		{"band height", func(c *Config) { c.Printer.BandHeight = 0 }},
		{"in endpoint direction", func(c *Config) { c.Printer.InEndpoint = 0x01 }},
		{"out endpoint direction", func(c *Config) { c.Printer.OutEndpoint = 0x82 }},
		{"density", func(c *Config) { c.PDF.Density = 10 }},
		{"pdf threshold", func(c *Config) { c.PDF.ThresholdPercent = 100 }},
		{"timeout", func(c *Config) { c.PDF.ToolTimeout = 0 }},
		{"wrap width", func(c *Config) { c.Text.WrapWidth = 0 }},
		{"line pitch", func(c *Config) { c.Text.LinePitch = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseUSBID(t *testing.T) {
	tests := []struct {
		in      string
		want    USBID
		wantErr bool
	}{
		{"0x20d1", 0x20d1, false},
		{"0X7008", 0x7008, false},
		{"20d1", 0x20d1, false},
		{" 0x81 ", 0x81, false},
		{"0x", 0, true},
		{"", 0, true},
		{"0x1ffff", 0, true},
		{"xyz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUSBID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUSBID_YAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(struct {
		ID USBID `yaml:"id"`
	}{ID: 0x20d1})
	require.NoError(t, err)
	assert.Equal(t, "id: \"0x20d1\"\n", string(out))
}
