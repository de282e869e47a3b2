package dispatch

import (
	"context"

	"github.com/spherical/thermal-print/internal/domain"
)

// ImageStrategy passes raster inputs straight through to the transport.
type ImageStrategy struct{}

func (ImageStrategy) Kind() domain.DocumentKind {
	return domain.KindImage
}

// Convert returns the input path unchanged; decoding happens at print time.
func (ImageStrategy) Convert(ctx context.Context, doc domain.SourceDocument, _ domain.Workspace) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.CancelledError(err)
	}
	return doc.Path, nil
}
