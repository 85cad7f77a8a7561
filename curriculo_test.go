package curriculo

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
)

type pageRecorder struct {
	page []byte
}

func (p *pageRecorder) Rasterize(_ context.Context, page []byte, _ export.PageOptions) ([]byte, error) {
	p.page = append([]byte(nil), page...)
	return []byte("%PDF-1.4"), nil
}

func TestEmbeddedBundles(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/curriculo.tmpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
	css, err := fs.ReadFile(AssetsFS(), "curriculo.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !bytes.Contains(css, []byte("@page")) {
		t.Fatalf("expected stylesheet to declare the printed page")
	}
}

func TestGenerateAndPreview(t *testing.T) {
	ctx := context.Background()

	out, err := Generate(ctx, testsupport.SampleRecord(), "text")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Ana Souza") {
		t.Fatalf("expected name in text output")
	}

	form := NewForm()
	if _, err := Generate(ctx, form.Snapshot(), ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	out, err = Preview(ctx, form.Snapshot(), "")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(string(out), "<html") {
		t.Fatalf("expected html preview by default")
	}
}

func TestExport(t *testing.T) {
	recorder := &pageRecorder{}
	dir := t.TempDir()

	result, err := Export(context.Background(), testsupport.SampleRecord(), recorder, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Filename != "curriculo_Ana_Souza.pdf" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	data, err := os.ReadFile(result.Path)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected pdf %q (%v)", data, err)
	}
	if !bytes.Contains(recorder.page, []byte("Experiência Profissional")) {
		t.Fatalf("expected the html page to be rasterized")
	}
}
