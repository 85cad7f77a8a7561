package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-curriculo/pkg/model"
)

// Now is the fixed instant used by fixtures that compute ages.
var Now = time.Date(2024, time.June, 14, 9, 30, 0, 0, time.UTC)

// SampleRecord returns a fully populated record in stored (normalized) form.
// Each call returns a fresh copy so tests can mutate it.
func SampleRecord() model.Record {
	rec := model.NewRecord()
	rec.Name = "Ana Souza"
	rec.Phone = "31987654321"
	rec.Email = "ana.souza@example.com"
	rec.BirthDate = "2000-06-15"
	rec.City = "Belo Horizonte"
	rec.License = "AB"
	rec.Objective = "Atuar como desenvolvedora backend."
	rec.Education = []model.EducationEntry{
		{Course: "Sistemas De Informação", Institution: "Ufmg", Status: model.StatusInProgress, Start: "2021-02", End: "2099-12"},
		{Course: "Técnico Em Informática", Institution: "Cefet", Status: model.StatusCompleted, Start: "2017-02", End: "2019-12"},
	}
	rec.Courses = []model.CourseEntry{
		{Course: "Go Avançado", Institution: "Alura", Status: model.StatusCompleted, Start: "2023-01", End: "2023-03"},
	}
	rec.Jobs = []model.JobEntry{
		{Company: "Acme Corp", Role: "Analista De Sistemas", Current: true, Start: "2022-01", End: "2023-01", Responsibilities: []string{"Suporte a clientes", "Automação de relatórios"}},
		{Company: "Loja Central", Role: "Estagiária", Start: "2020-03", End: "2021-12", Responsibilities: []string{}},
	}
	rec.Knowledge = []model.KnowledgeEntry{{Description: "Go"}, {Description: "SQL"}}
	rec.Languages = []model.LanguageEntry{
		{Language: "Inglês", Proficiency: model.ProficiencyFluent},
		{Language: "Espanhol", Proficiency: model.ProficiencyBasic},
	}
	return rec
}

// MustLoadRecord reads a YAML or JSON record fixture (chosen by extension).
func MustLoadRecord(t *testing.T, path string) model.Record {
	t.Helper()

	rec, err := LoadRecord(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	return rec
}

// LoadRecord reads a record fixture without requiring testing.T.
func LoadRecord(path string) (model.Record, error) {
	if path == "" {
		return model.Record{}, errors.New("testsupport: record path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Record{}, fmt.Errorf("testsupport: open record: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return model.DecodeJSON(f)
	default:
		return model.DecodeYAML(f)
	}
}

// WriteRecord writes rec as YAML into dir and returns the file path.
func WriteRecord(t *testing.T, dir string, rec model.Record) string {
	t.Helper()

	path := filepath.Join(dir, "record.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	defer f.Close()
	if err := model.EncodeYAML(f, rec); err != nil {
		t.Fatalf("encode record: %v", err)
	}
	return path
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
