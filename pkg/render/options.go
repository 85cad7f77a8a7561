package render

import (
	"github.com/goliatone/go-curriculo/pkg/model"
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the preview document.
type RenderOptions struct {
	// Record is the snapshot the document was built from. The json renderer
	// serializes it; other renderers ignore it.
	Record *model.Record
	// Theme carries the resolved go-theme configuration (tokens, CSS variables,
	// asset resolver). Nil renders with the built-in look.
	Theme *theme.RendererConfig
	// Errors surfaces validation feedback keyed by wire path ("email").
	Errors map[string][]string
	// FormErrors are summary messages shown above the document.
	FormErrors []string
	// Locale selects translated section headings through Translator.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
