package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/preview"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// looked up without a Translator.
var ErrMissingTranslator = errors.New("render: translator is required")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text used when a key cannot be
// translated. args carries a map with the "default" text.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Catalog is an in-memory Translator keyed by locale then message key.
type Catalog map[string]map[string]string

// Translate implements Translator. Locales fall back from "pt-BR" to "pt".
func (c Catalog) Translate(locale, key string, _ ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok && strings.TrimSpace(msg) != "" {
			return msg, nil
		}
	}
	return "", fmt.Errorf("render: no translation for %q (%s)", key, locale)
}

// Label keys for the section headings of the preview.
const (
	LabelObjective  = "section.objective"
	LabelEducation  = "section.education"
	LabelExperience = "section.experience"
	LabelCourses    = "section.courses"
	LabelKnowledge  = "section.knowledge"
	LabelLanguages  = "section.languages"
	LabelLicense    = "section.license"
)

var defaultLabels = map[string]string{
	LabelObjective:  preview.HeadingObjective,
	LabelEducation:  preview.HeadingEducation,
	LabelExperience: preview.HeadingExperience,
	LabelCourses:    preview.HeadingCourses,
	LabelKnowledge:  preview.HeadingKnowledge,
	LabelLanguages:  preview.HeadingLanguages,
	LabelLicense:    preview.HeadingLicense,
}

// Labels resolves every section heading for opts. Without a Translator the
// Portuguese headings are returned unchanged.
func Labels(opts RenderOptions) map[string]string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	out := make(map[string]string, len(defaultLabels))
	for key, fallback := range defaultLabels {
		if opts.Translator == nil {
			out[key] = fallback
			continue
		}
		out[key] = translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := values["default"].(string); ok && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return key
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok && base != "" {
		chain = append(chain, base)
	}
	return chain
}
