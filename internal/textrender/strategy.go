package textrender

import (
	"context"

	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
	"github.com/spherical/thermal-print/internal/raster"
)

// OutputName is the file the strategy writes inside the job workspace.
const OutputName = "text.bmp"

// Strategy renders .txt documents on a Canvas.
type Strategy struct {
	canvas *Canvas
	logger *observability.Logger
}

// NewStrategy creates a text strategy around a prepared canvas.
func NewStrategy(canvas *Canvas, logger *observability.Logger) *Strategy {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Strategy{
		canvas: canvas,
		logger: logger.WithOperation("text"),
	}
}

// Kind implements domain.Strategy.
func (s *Strategy) Kind() domain.DocumentKind {
	return domain.KindText
}

// Convert implements domain.Strategy.
func (s *Strategy) Convert(ctx context.Context, doc domain.SourceDocument, ws domain.Workspace) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.CancelledError(err)
	}

	text, err := ReadText(doc.Path)
	if err != nil {
		return "", domain.RenderError(doc.Path, err)
	}

	lines := WrapText(text, s.canvas.Layout().WrapWidth)
	bitmap := s.canvas.Render(lines)

	s.logger.WithContext(ctx).Debug().
		Str("font", s.canvas.FontName()).
		Int("lines", len(lines)).
		Int("height", bitmap.Height).
		Msg("Rendered text")

	out := ws.Path(OutputName)
	if err := raster.Save(out, bitmap); err != nil {
		return "", domain.RenderError(doc.Path, err)
	}
	return out, nil
}
