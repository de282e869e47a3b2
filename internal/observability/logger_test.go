package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "thermal-print"})

	ctx := ContextWithJobID(context.Background(), "job-1")
	logger.WithContext(ctx).WithOperation("crop").Warn().Str("tool", "pdfcrop").Msg("cropping failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "thermal-print", entry["service"])
	assert.Equal(t, "job-1", entry["job_id"])
	assert.Equal(t, "crop", entry["operation"])
	assert.Equal(t, "pdfcrop", entry["tool"])
	assert.Equal(t, "cropping failed", entry["message"])
}

func TestLogger_WithFieldsOnEveryEvent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	child := base.WithJob("job-2").With().Str("file", "receipt.txt").Int("interface", 0).Logger()
	child.Info().Msg("first")
	child.Info().Msg("second")
	base.Info().Msg("parent")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	for _, line := range lines[:2] {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "job-2", entry["job_id"])
		assert.Equal(t, "receipt.txt", entry["file"])
		assert.Equal(t, float64(0), entry["interface"])
	}

	var parent map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[2], &parent))
	assert.NotContains(t, parent, "file")
	assert.NotContains(t, parent, "job_id")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}
