package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
	"github.com/goliatone/go-curriculo/pkg/renderers/jsonwire"
	"github.com/goliatone/go-curriculo/pkg/renderers/text"
	"github.com/goliatone/go-curriculo/pkg/visibility"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves request themes through selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeManifests builds a ManifestSelector from manifests. defaultTheme
// and defaultVariant apply when a request leaves them empty.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector, err := NewManifestSelector(defaultTheme, defaultVariant, manifests...)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets the partials used when a theme does not override
// them. The map is merged over the built-in fallbacks.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		if len(fallbacks) == 0 {
			return
		}
		if o.themeFallbacks == nil {
			o.themeFallbacks = defaultThemeFallbacks()
		}
		for key, value := range fallbacks {
			o.themeFallbacks[key] = value
		}
	}
}

// WithClock injects the clock used for the age in the header.
func WithClock(clock preview.Clock) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithVisibilityEvaluators adds rules that hide extra paths on top of the
// derived visibility.
func WithVisibilityEvaluators(evaluators ...visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluators = append(o.evaluators, evaluators...)
	}
}

// WithTransformer registers a Transformer applied to every built document.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates validation, document building, theme resolution
// and rendering. The zero configuration renders HTML with the embedded page
// and no theme.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	clock           preview.Clock
	evaluators      []visibility.Evaluator
	transformer     Transformer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		clock:           preview.SystemClock{},
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render of a record snapshot.
type Request struct {
	// Record is the snapshot to render. Callers pass Form.Snapshot() so the
	// pipeline never observes later edits.
	Record model.Record

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select a theme through the configured
	// selector. Empty values use the selector defaults.
	ThemeName    string
	ThemeVariant string

	// SkipValidation renders incomplete records, as the live preview does.
	SkipValidation bool

	// Extras are handed to visibility evaluators.
	Extras map[string]any

	// RenderOptions carries per-request renderer settings. Record and Theme
	// are filled in by the orchestrator when left nil.
	RenderOptions render.RenderOptions
}

// Generate validates the snapshot, builds the preview document, resolves the
// theme and renders the result with the selected renderer. A failed
// validation returns the *model.ValidationError unchanged.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	if !req.SkipValidation {
		if err := model.Validate(req.Record); err != nil {
			o.logger.Debug("record failed validation", zap.Error(err))
			return nil, err
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	doc, err := o.buildDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Record == nil {
		rec := req.Record.Clone()
		opts.Record = &rec
	}
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug("document rendered",
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(output)),
	)
	return output, nil
}

// Document builds the preview document for req without rendering it.
func (o *Orchestrator) Document(ctx context.Context, req Request) (preview.Document, error) {
	if err := o.ready(ctx); err != nil {
		return preview.Document{}, err
	}
	return o.buildDocument(ctx, req)
}

// Renderer returns the renderer Generate would use for name.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	return o.rendererFor(name)
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) buildDocument(ctx context.Context, req Request) (preview.Document, error) {
	opts := preview.BuildOptions{Clock: o.clock}
	if len(o.evaluators) > 0 {
		hidden, err := visibility.EvaluateWith(visibility.Context{Record: req.Record, Extras: req.Extras}, o.evaluators...)
		if err != nil {
			return preview.Document{}, fmt.Errorf("orchestrator: evaluate visibility: %w", err)
		}
		opts.Hidden = hidden
	}

	doc := preview.Build(req.Record, opts)
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &doc); err != nil {
			return preview.Document{}, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry(text.New(), jsonwire.New())
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
}
