package remote_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
	"github.com/goliatone/go-curriculo/pkg/transport/httpapi"
	"github.com/goliatone/go-curriculo/pkg/transport/remote"
)

func TestClient_PostsRecord(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate_pdf", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	client, err := remote.New(srv.URL + "/api/")
	require.NoError(t, err)

	pdf, err := client.Produce(context.Background(), testsupport.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
	assert.Contains(t, body, `"nome":"Ana Souza"`)
	assert.Contains(t, body, `"atribuicoes":["Suporte a clientes","Automação de relatórios"]`)
}

func TestClient_SurfacesErrorBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := remote.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Produce(context.Background(), testsupport.SampleRecord())
	var statusErr *remote.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "boom")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_AgainstServer(t *testing.T) {
	backend := export.BackendFunc(func(context.Context, model.Record) ([]byte, error) {
		return []byte("%PDF-server"), nil
	})
	api, err := httpapi.New(backend)
	require.NoError(t, err)
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	client, err := remote.New(srv.URL)
	require.NoError(t, err)

	pdf, err := client.Produce(context.Background(), testsupport.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-server", string(pdf))

	rec := testsupport.SampleRecord()
	rec.Phone = ""
	_, err = client.Produce(context.Background(), rec)
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Form, model.RequiredMessagePrefix+"Telefone.")
	assert.Contains(t, verr.Fields, "telefone")

	exporter := export.New(client, export.WithOutputDir(t.TempDir()))
	result, err := exporter.Export(context.Background(), testsupport.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "curriculo_Ana_Souza.pdf", result.Filename)
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://host", "://nope"} {
		_, err := remote.New(raw)
		assert.Error(t, err, raw)
	}
}
