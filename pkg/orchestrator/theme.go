package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-curriculo/pkg/renderers/html"
)

var (
	// ErrThemeNotFound is returned by ManifestSelector for an unknown theme.
	ErrThemeNotFound = errors.New("orchestrator: theme not found")
	// ErrVariantNotFound is returned by ManifestSelector for an unknown variant.
	ErrVariantNotFound = errors.New("orchestrator: theme variant not found")
)

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		html.PagePartial: html.PageTemplate,
	}
}

// ManifestSelector is a theme.ThemeSelector over an in-memory set of
// manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. defaultTheme must name one of
// them when non-empty; with a single manifest it defaults to that manifest.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return nil, errors.New("orchestrator: theme manifest name is required")
		}
		if _, exists := s.manifests[name]; exists {
			return nil, fmt.Errorf("orchestrator: theme %q registered twice", name)
		}
		s.manifests[name] = manifest
	}
	if s.defaultTheme == "" && len(s.manifests) == 1 {
		for name := range s.manifests {
			s.defaultTheme = name
		}
	}
	if s.defaultTheme != "" {
		if _, ok := s.manifests[s.defaultTheme]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrThemeNotFound, s.defaultTheme)
		}
	}
	return s, nil
}

// Names lists the registered theme names in order.
func (s *ManifestSelector) Names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves name and variant, falling back to the defaults when empty.
// The default variant is only applied when the manifest declares it.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	if name == "" {
		return nil, nil
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		if _, ok := manifest.Variants[s.defaultVariant]; ok {
			variant = s.defaultVariant
		}
	} else if _, ok := manifest.Variants[variant]; !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, name, variant)
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig merges fallbacks, manifest and variant values. Variant
// values win over manifest values, which win over fallbacks.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStringMap(nil, fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	prefix := ""
	files := map[string]string{}
	if manifest := selection.Manifest; manifest != nil {
		cfg.Partials = mergeStringMap(cfg.Partials, manifest.Templates)
		cfg.Tokens = mergeStringMap(cfg.Tokens, manifest.Tokens)
		prefix = manifest.Assets.Prefix
		files = mergeStringMap(files, manifest.Assets.Files)

		if variant, ok := manifest.Variants[selection.Variant]; ok && selection.Variant != "" {
			cfg.Partials = mergeStringMap(cfg.Partials, variant.Templates)
			cfg.Tokens = mergeStringMap(cfg.Tokens, variant.Tokens)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			files = mergeStringMap(files, variant.Assets.Files)
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
