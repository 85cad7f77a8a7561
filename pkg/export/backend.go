package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/orchestrator"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
)

// Backend produces the PDF bytes of a record snapshot.
type Backend interface {
	Produce(ctx context.Context, rec model.Record) ([]byte, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, rec model.Record) ([]byte, error)

// Produce calls fn.
func (fn BackendFunc) Produce(ctx context.Context, rec model.Record) ([]byte, error) {
	return fn(ctx, rec)
}

// PageOptions describes the printed page. Lengths are millimetres.
type PageOptions struct {
	WidthMM         float64
	HeightMM        float64
	MarginMM        float64
	Landscape       bool
	PrintBackground bool
}

// A4 is a portrait A4 page with 10 mm margins.
func A4() PageOptions {
	return PageOptions{WidthMM: 210, HeightMM: 297, MarginMM: 10, PrintBackground: true}
}

// Rasterizer converts a self-contained HTML page into PDF bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, page []byte, opts PageOptions) ([]byte, error)
}

// LocalOption configures a LocalBackend.
type LocalOption func(*LocalBackend)

// WithPage overrides the printed page.
func WithPage(page PageOptions) LocalOption {
	return func(b *LocalBackend) {
		b.page = page
	}
}

// WithTheme selects the theme used for the HTML page.
func WithTheme(name, variant string) LocalOption {
	return func(b *LocalBackend) {
		b.themeName = name
		b.themeVariant = variant
	}
}

// LocalBackend renders the HTML page with an orchestrator and rasterizes it.
type LocalBackend struct {
	orchestrator *orchestrator.Orchestrator
	rasterizer   Rasterizer
	page         PageOptions
	themeName    string
	themeVariant string
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend wires orch and rasterizer. A nil orch uses the defaults.
func NewLocalBackend(orch *orchestrator.Orchestrator, rasterizer Rasterizer, options ...LocalOption) *LocalBackend {
	if orch == nil {
		orch = orchestrator.New()
	}
	b := &LocalBackend{orchestrator: orch, rasterizer: rasterizer, page: A4()}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Produce renders the html page of rec and rasterizes it.
func (b *LocalBackend) Produce(ctx context.Context, rec model.Record) ([]byte, error) {
	if b.rasterizer == nil {
		return nil, errors.New("export: rasterizer is nil")
	}
	page, err := b.orchestrator.Generate(ctx, orchestrator.Request{
		Record:       rec,
		Renderer:     html.Name,
		ThemeName:    b.themeName,
		ThemeVariant: b.themeVariant,
	})
	if err != nil {
		return nil, err
	}
	pdf, err := b.rasterizer.Rasterize(ctx, page, b.page)
	if err != nil {
		return nil, fmt.Errorf("export: rasterize: %w", err)
	}
	return pdf, nil
}
