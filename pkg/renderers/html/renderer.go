package html

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
	rendertemplate "github.com/goliatone/go-curriculo/pkg/render/template"
	"github.com/goliatone/go-curriculo/pkg/render/template/pongo"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       *string
	lang             string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain PageTemplate unless a theme partial names another file.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk ahead of the
// embedded bundle, so single files can be overridden.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the embedded stylesheet. An empty string disables
// the inline stylesheet.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// WithLang sets the document language attribute (default "pt-BR").
func WithLang(lang string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			cfg.lang = trimmed
		}
	}
}

// Renderer produces the printable A4 page of a preview document.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	lang       string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), lang: "pt-BR"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	if err := registerSanitizeFilter(); err != nil {
		return nil, err
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithName("curriculo-html"),
			pongo.WithBaseDir(cfg.templatesDir),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{templates: renderer, stylesheet: stylesheet, lang: cfg.lang}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template. Every user string passes through the
// sanitize filter; computed text is escaped by the engine.
func (r *Renderer) Render(ctx context.Context, doc preview.Document, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(pageTemplate(opts.Theme), map[string]any{
		"doc":        doc,
		"labels":     shortLabels(render.Labels(opts)),
		"theme":      buildThemeContext(opts.Theme),
		"stylesheet": r.stylesheet,
		"errors":     opts.FormErrors,
		"lang":       r.lang,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// shortLabels drops the "section." prefix so templates can write
// labels.objective.
func shortLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for key, value := range labels {
		out[strings.TrimPrefix(key, "section.")] = value
	}
	return out
}
