package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeContext struct {
	Name          string            `json:"name,omitempty"`
	Variant       string            `json:"variant,omitempty"`
	Tokens        map[string]string `json:"tokens,omitempty"`
	CSSVars       map[string]string `json:"css_vars,omitempty"`
	CSSVarsStyle  string            `json:"css_vars_style,omitempty"`
	StylesheetURL string            `json:"stylesheet_url,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	if cfg.AssetURL != nil {
		ctx.StylesheetURL = strings.TrimSpace(cfg.AssetURL(StylesheetAsset))
	}
	return ctx
}

func pageTemplate(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return PageTemplate
	}
	if partial := strings.TrimSpace(cfg.Partials[PagePartial]); partial != "" {
		return partial
	}
	return PageTemplate
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// cssVarsStyle renders a :root block. Keys without the "--" prefix and values
// that could close the style element are skipped.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if !strings.HasPrefix(key, "--") || !safeCSSValue(key) || !safeCSSValue(vars[key]) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func safeCSSValue(value string) bool {
	return !strings.ContainsAny(value, "<>{};")
}
