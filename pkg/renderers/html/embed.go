package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	// StylesheetName is the embedded page stylesheet inlined into every render.
	StylesheetName = "curriculo.css"
	// PageTemplate is the default page template path inside TemplatesFS.
	PageTemplate = "templates/curriculo.tmpl"
	// PagePartial is the theme partial key that overrides PageTemplate.
	PagePartial = "curriculo.page"
	// StylesheetAsset is the theme asset key of an extra stylesheet link.
	StylesheetAsset = "curriculo.stylesheet"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded asset bundle so callers can serve or copy it.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func defaultStylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}
