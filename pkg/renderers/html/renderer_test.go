package html_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
)

func renderSample(t *testing.T, rec model.Record, opts render.RenderOptions, options ...html.Option) string {
	t.Helper()

	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	doc := preview.Build(rec, preview.BuildOptions{Clock: preview.FixedClock(testsupport.Now)})
	out, err := renderer.Render(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_SectionsInExportOrder(t *testing.T) {
	out := renderSample(t, testsupport.SampleRecord(), render.RenderOptions{})

	order := []string{
		"Ana Souza",
		"ana.souza@example.com | (31) 98765-4321 | 23 anos | Belo Horizonte",
		"Objetivo",
		"Formação Acadêmica",
		"02/2021 - Atual",
		"Experiência Profissional",
		"➢ Analista De Sistemas — Acme Corp",
		"01/2022 - Atual",
		"<li>Suporte a clientes</li>",
		"Cursos",
		"Conhecimentos",
		"Idiomas",
		"Inglês — Fluente",
		"CNH",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("missing %q in output:\n%s", marker, out)
		}
		if idx < last {
			t.Fatalf("marker %q out of order", marker)
		}
		last = idx
	}
	if strings.Contains(out, "2099") {
		t.Fatalf("stale end month of an ongoing entry leaked into output")
	}
}

func TestRenderer_EmptyRecordPlaceholders(t *testing.T) {
	out := renderSample(t, model.NewRecord(), render.RenderOptions{})

	for _, marker := range []string{
		preview.PlaceholderName,
		"email@exemplo.com | (00) 00000-0000 | idade | Cidade",
		`<div class="curriculo-body">-</div>`,
	} {
		if !strings.Contains(out, marker) {
			t.Fatalf("missing %q in output", marker)
		}
	}
	if strings.Contains(out, ">CNH<") {
		t.Fatalf("license heading must be hidden for an empty code")
	}
}

func TestRenderer_SanitizesUserText(t *testing.T) {
	rec := testsupport.SampleRecord()
	rec.Name = `Ana <script>alert("x")</script>`
	rec.Knowledge = []model.KnowledgeEntry{{Description: `<img src=x onerror=alert(1)>Go & SQL`}}

	out := renderSample(t, rec, render.RenderOptions{})

	if strings.Contains(out, "<script>alert") || strings.Contains(out, "onerror") {
		t.Fatalf("unsanitized markup in output:\n%s", out)
	}
	if !strings.Contains(out, "Go &amp; SQL") {
		t.Fatalf("expected escaped ampersand once")
	}
	if strings.Contains(out, "&amp;amp;") {
		t.Fatalf("text escaped twice")
	}
}

func TestRenderer_ThemeAndLabels(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens:  map[string]string{"text-color": "#111"},
		CSSVars: map[string]string{"--text-color": "#111", "--evil": "red;}</style>"},
		AssetURL: func(key string) string {
			if key == html.StylesheetAsset {
				return "/assets/acme/theme.css"
			}
			return ""
		},
	}
	opts := render.RenderOptions{
		Theme:      cfg,
		Locale:     "en-US",
		Translator: render.Catalog{"en": {render.LabelObjective: "Objective"}},
		FormErrors: []string{"Preencha os campos obrigatórios: Nome."},
	}

	out := renderSample(t, testsupport.SampleRecord(), opts)

	for _, marker := range []string{
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		"--text-color: #111;",
		`<link rel="stylesheet" href="/assets/acme/theme.css">`,
		">Objective<",
		">Formação Acadêmica<",
		"Preencha os campos obrigatórios: Nome.",
	} {
		if !strings.Contains(out, marker) {
			t.Fatalf("missing %q in output", marker)
		}
	}
	if strings.Contains(out, "--evil") {
		t.Fatalf("unsafe css variable rendered")
	}
}

func TestRenderer_ThemePartialOverridesPage(t *testing.T) {
	files := fstest.MapFS{
		"custom/page.tmpl": {Data: []byte("<p>{{ doc.header.name|sanitize }} / {{ labels.license }}</p>")},
	}
	cfg := &theme.RendererConfig{Partials: map[string]string{html.PagePartial: "custom/page.tmpl"}}

	out := renderSample(t, testsupport.SampleRecord(), render.RenderOptions{Theme: cfg}, html.WithTemplatesFS(files))
	if out != "<p>Ana Souza / CNH</p>" {
		t.Fatalf("unexpected custom page output %q", out)
	}
}

func TestRenderer_TemplatesDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := filepath.Join(dir, filepath.FromSlash(html.PageTemplate))
	if err := os.WriteFile(page, []byte("<h1>{{ doc.header.name|sanitize }}</h1>"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	out := renderSample(t, testsupport.SampleRecord(), render.RenderOptions{}, html.WithTemplatesDir(dir))
	if out != "<h1>Ana Souza</h1>" {
		t.Fatalf("expected the on-disk page to win, got %q", out)
	}

	empty := renderSample(t, testsupport.SampleRecord(), render.RenderOptions{}, html.WithTemplatesDir(t.TempDir()))
	if !strings.Contains(empty, "Experiência Profissional") {
		t.Fatalf("expected the embedded page when the directory lacks it")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New(html.WithStylesheet(""))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != html.Name || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}
	if html.SanitizeText("a <b>b</b>") != "a b" {
		t.Fatalf("unexpected sanitize result %q", html.SanitizeText("a <b>b</b>"))
	}
}
