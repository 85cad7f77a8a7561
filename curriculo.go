// Package curriculo is the entry point of the résumé builder: it re-exports the
// record types and wires the form, orchestrator and exporter with defaults.
package curriculo

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/orchestrator"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
)

// Record is the résumé snapshot.
type Record = model.Record

// Form owns a record being edited.
type Form = model.Form

// ValidationError lists the missing or invalid fields that block an export.
type ValidationError = model.ValidationError

// RenderOptions describes per-request renderer overrides such as labels,
// locale and error messages.
type RenderOptions = render.RenderOptions

// NewForm returns an empty form.
func NewForm(options ...model.Option) *Form {
	return model.NewForm(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate validates rec and renders it with the named renderer ("html",
// "text" or "json"). An empty name selects html.
func Generate(ctx context.Context, rec Record, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Record:   rec,
		Renderer: rendererName,
	})
}

// Preview renders rec without validation, showing placeholders for empty
// fields the way the live preview does.
func Preview(ctx context.Context, rec Record, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Record:         rec,
		Renderer:       rendererName,
		SkipValidation: true,
	})
}

// Export prints rec through rasterizer and saves curriculo_<name>.pdf in dir.
func Export(ctx context.Context, rec Record, rasterizer export.Rasterizer, dir string, options ...orchestrator.Option) (export.Result, error) {
	backend := export.NewLocalBackend(orchestrator.New(options...), rasterizer)
	return export.New(backend, export.WithOutputDir(dir)).Export(ctx, rec)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet of the printable page.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
