package render

import (
	"context"

	"github.com/goliatone/go-curriculo/pkg/preview"
)

// Renderer converts a preview Document into a byte representation (HTML,
// terminal text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc preview.Document, options RenderOptions) ([]byte, error)
}
