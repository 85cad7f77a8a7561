package jsonwire_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
	"github.com/goliatone/go-curriculo/pkg/renderers/jsonwire"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
)

func TestRenderer_RoundTripsWireRecord(t *testing.T) {
	rec := testsupport.SampleRecord()

	out, err := jsonwire.New().Render(context.Background(), preview.Document{}, render.RenderOptions{Record: &rec})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, key := range []string{`"nome": "Ana Souza"`, `"experiencias"`, `"atribuicoes"`, `"idiomas"`} {
		if !strings.Contains(string(out), key) {
			t.Fatalf("missing %s in output:\n%s", key, out)
		}
	}

	decoded, err := model.DecodeJSON(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(rec, decoded); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_CompactAndMissingRecord(t *testing.T) {
	rec := model.NewRecord()
	rec.Name = "Ana & Bia"

	out, err := jsonwire.New(jsonwire.WithIndent("")).Render(context.Background(), preview.Document{}, render.RenderOptions{Record: &rec})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Count(string(out), "\n") != 1 || !strings.Contains(string(out), `"Ana & Bia"`) {
		t.Fatalf("unexpected compact output %s", out)
	}

	_, err = jsonwire.New().Render(context.Background(), preview.Document{}, render.RenderOptions{})
	if !errors.Is(err, jsonwire.ErrRecordRequired) {
		t.Fatalf("expected ErrRecordRequired, got %v", err)
	}
}
