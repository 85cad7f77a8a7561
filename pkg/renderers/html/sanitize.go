package html

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	sanitizeFilterOnce sync.Once
	sanitizeFilterErr  error
)

// SanitizeText strips every tag from user text and escapes what remains, so
// the result is safe to embed in HTML as-is.
func SanitizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	return textSanitizer().Sanitize(raw)
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// registerSanitizeFilter installs the "sanitize" pongo2 filter. Its output is
// marked safe because bluemonday already escaped it.
func registerSanitizeFilter() error {
	sanitizeFilterOnce.Do(func() {
		if pongo2.FilterExists(SanitizeFilter) {
			return
		}
		if err := pongo2.RegisterFilter(SanitizeFilter, filterSanitize); err != nil {
			sanitizeFilterErr = fmt.Errorf("html renderer: register %s filter: %w", SanitizeFilter, err)
		}
	})
	return sanitizeFilterErr
}

// SanitizeFilter is the pongo2 filter applied to every user string.
const SanitizeFilter = "sanitize"

func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(SanitizeText(in.String())), nil
}
