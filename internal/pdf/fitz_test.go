package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/raster"
)

// samplePDFEnv names a real PDF to rasterize; the test is skipped without it.
const samplePDFEnv = "THERMAL_SAMPLE_PDF"

func TestFitzRasterizer_SamplePDF(t *testing.T) {
	sample := os.Getenv(samplePDFEnv)
	if sample == "" {
		t.Skipf("%s not set", samplePDFEnv)
	}
	if _, err := os.Stat(sample); os.IsNotExist(err) {
		t.Skipf("sample PDF not found at %s", sample)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	out := filepath.Join(t.TempDir(), OutputName)
	opts := domain.DefaultRasterOptions()
	opts.DPI = 150

	require.NoError(t, NewFitzRasterizer().Rasterize(ctx, sample, out, opts))

	img, err := raster.Load(out)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestFitzRasterizer_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	err := NewFitzRasterizer().Rasterize(context.Background(), path, filepath.Join(t.TempDir(), "out.bmp"), domain.DefaultRasterOptions())
	assert.Error(t, err)
}
