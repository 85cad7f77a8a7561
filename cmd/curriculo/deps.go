package main

import (
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/export/rodpdf"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/orchestrator"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
	"github.com/goliatone/go-curriculo/pkg/renderers/jsonwire"
	"github.com/goliatone/go-curriculo/pkg/renderers/text"
	"github.com/goliatone/go-curriculo/pkg/transport/remote"
	"github.com/goliatone/go-curriculo/pkg/visibility/expr"
)

func (a *app) formOptions() []model.Option {
	return []model.Option{
		model.WithLicenseRules(a.cfg.License),
		model.WithLogger(a.logger.Named("form")),
	}
}

func (a *app) registry(textOptions ...text.Option) (*render.Registry, error) {
	page, err := html.New(html.WithTemplatesDir(a.cfg.TemplatesDir))
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(page, text.New(textOptions...), jsonwire.New()), nil
}

func (a *app) orchestrator(textOptions ...text.Option) (*orchestrator.Orchestrator, error) {
	registry, err := a.registry(textOptions...)
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger.Named("orchestrator")),
	}
	if len(a.cfg.HideRules) > 0 {
		rules, err := expr.Compile(a.cfg.HideRules...)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithVisibilityEvaluators(rules))
	}
	if len(a.cfg.Themes) > 0 {
		options = append(options, orchestrator.WithThemeManifests(a.cfg.Theme, a.cfg.ThemeVariant, a.manifests()...))
	}
	return orchestrator.New(options...), nil
}

// manifests converts the configured themes into go-theme manifests.
func (a *app) manifests() []*theme.Manifest {
	out := make([]*theme.Manifest, 0, len(a.cfg.Themes))
	for _, th := range a.cfg.Themes {
		manifest := &theme.Manifest{
			Name:     strings.TrimSpace(th.Name),
			Version:  "1",
			Tokens:   maps.Clone(th.Tokens),
			Variants: make(map[string]theme.Variant, len(th.Variants)),
		}
		for name, tokens := range th.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: maps.Clone(tokens)}
		}
		out = append(out, manifest)
	}
	return out
}

// backend returns the PDF producer and a release func. remoteURL selects the
// HTTP client over the local headless browser.
func (a *app) backend(remoteURL string) (export.Backend, func(), error) {
	if remoteURL = strings.TrimSpace(remoteURL); remoteURL != "" {
		client, err := a.remote(remoteURL)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}

	orch, err := a.orchestrator()
	if err != nil {
		return nil, nil, err
	}
	rasterizer := rodpdf.New(
		rodpdf.WithBrowserBin(a.cfg.Chrome.Bin),
		rodpdf.WithControlURL(a.cfg.Chrome.ControlURL),
		rodpdf.WithTimeout(a.cfg.Chrome.Timeout),
		rodpdf.WithLogger(a.logger.Named("rodpdf")),
	)
	release := func() {
		if err := rasterizer.Close(); err != nil {
			a.logger.Warn("close browser", zap.Error(err))
		}
	}
	backend := export.NewLocalBackend(orch, rasterizer, export.WithTheme(a.cfg.Theme, a.cfg.ThemeVariant))
	return backend, release, nil
}

func (a *app) remote(url string) (*remote.Client, error) {
	client, err := remote.New(url,
		remote.WithTimeout(a.cfg.Chrome.Timeout),
		remote.WithLogger(a.logger.Named("remote")),
	)
	if err != nil {
		return nil, fmt.Errorf("remote backend: %w", err)
	}
	return client, nil
}

func (a *app) exporter(backend export.Backend, outputDir string) *export.Exporter {
	if outputDir == "" {
		outputDir = a.cfg.OutputDir
	}
	return export.New(backend,
		export.WithOutputDir(outputDir),
		export.WithLogger(a.logger.Named("export")),
	)
}
