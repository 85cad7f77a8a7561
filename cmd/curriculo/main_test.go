package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/transport/httpapi"
)

const fakePDF = "%PDF-1.4 curriculo"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), ".env")))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func pdfService(t *testing.T) *httptest.Server {
	t.Helper()

	backend := export.BackendFunc(func(ctx context.Context, rec model.Record) ([]byte, error) {
		return []byte(fakePDF), nil
	})
	server, err := httpapi.New(backend)
	require.NoError(t, err)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRender_Text(t *testing.T) {
	out, err := run(t, "", "render", "testdata/record.yaml", "-f", "text", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "Ana Souza")
	assert.Contains(t, out, "ana.souza@example.com | (31) 98765-4321")
	assert.Contains(t, out, "➢ Analista De Sistemas — Acme Corp")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_JSONFromStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	input := `{"nome":"joão","telefone":"31 3333-4444","email":"J@X.COM","objetivo":"Vendas","cnh":"b"}`

	_, err := run(t, input, "render", "-", "-f", "json", "-o", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rec, err := model.DecodeJSON(f)
	require.NoError(t, err)

	assert.Equal(t, "João", rec.Name)
	assert.Equal(t, "3133334444", rec.Phone)
	assert.Equal(t, "j@x.com", rec.Email)
	assert.Equal(t, "B", rec.License)
}

func TestRender_ValidationBlocksUnlessSkipped(t *testing.T) {
	_, err := run(t, "", "render", "testdata/incomplete.json", "-f", "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.True(t, strings.HasPrefix(describe(err), model.RequiredMessagePrefix))

	out, err := run(t, "", "render", "testdata/incomplete.json", "-f", "text", "--plain", "--skip-validation")
	require.NoError(t, err)
	assert.Contains(t, out, "Belo Horizonte")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := run(t, "", "render", "testdata/record.yaml", "-f", "docx")
	require.Error(t, err)
}

func TestExport_Remote(t *testing.T) {
	srv := pdfService(t)
	dir := t.TempDir()

	out, err := run(t, "", "export", "testdata/record.yaml", "--remote", srv.URL, "-d", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "curriculo_Ana_Souza.pdf")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))
}

func TestExport_InvalidRecordWritesNothing(t *testing.T) {
	srv := pdfService(t)
	dir := t.TempDir()

	_, err := run(t, "", "export", "testdata/incomplete.json", "--remote", srv.URL, "-d", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSend_ServerDecides(t *testing.T) {
	srv := pdfService(t)
	path := filepath.Join(t.TempDir(), "cv.pdf")

	_, err := run(t, "", "send", "testdata/record.yaml", "--url", srv.URL, "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))

	_, err = run(t, "", "send", "testdata/incomplete.json", "--url", srv.URL, "-o", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestSend_RequiresURL(t *testing.T) {
	_, err := run(t, "", "send", "testdata/record.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url")
}

func TestConfigFile(t *testing.T) {
	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "render", "testdata/record.yaml")
	require.Error(t, err)

	cfg := filepath.Join(t.TempDir(), "curriculo.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("license:\n  charset: letters\n  max_length: 1\n"), 0o600))
	path := filepath.Join(t.TempDir(), "out.json")
	_, err = run(t, "", "--config", cfg, "render", "testdata/record.yaml", "-f", "json", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cnh": "A"`)
}

func TestDescribe(t *testing.T) {
	failure := &export.Failure{Stage: "produce", Err: errors.New("chrome crashed")}
	assert.Equal(t, export.UserMessage, describe(failure))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}

func TestRender_HideRules(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "curriculo.yaml")
	rules := "hide_rules:\n  - target: cnh\n    when: extras.sem_cnh\n  - target: \"experiencias.*\"\n    when: empresa == \"Acme Corp\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(rules), 0o600))

	out, err := run(t, "", "--config", cfg, "render", "testdata/record.yaml", "-f", "text", "--plain", "--extra", "sem_cnh=true")
	require.NoError(t, err)
	assert.NotContains(t, out, "Acme Corp")
	assert.NotContains(t, out, "CNH")
	assert.Contains(t, out, "Sistemas De Informação")
}
