package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/orchestrator"
	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubRasterizer struct {
	calls atomic.Int32
	page  []byte
	opts  export.PageOptions
	err   error
}

func (s *stubRasterizer) Rasterize(_ context.Context, page []byte, opts export.PageOptions) ([]byte, error) {
	s.calls.Add(1)
	s.page = page
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 stub"), nil
}

func localExporter(t *testing.T, rasterizer export.Rasterizer, options ...export.Option) (*export.Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	orch := orchestrator.New(orchestrator.WithClock(preview.FixedClock(testsupport.Now)))
	options = append([]export.Option{export.WithOutputDir(dir), export.WithIDGenerator(func() string { return "job-1" })}, options...)
	return export.New(export.NewLocalBackend(orch, rasterizer), options...), dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestExporter_WritesNamedFile(t *testing.T) {
	rasterizer := &stubRasterizer{}
	exporter, dir := localExporter(t, rasterizer)

	result, err := exporter.Export(context.Background(), testsupport.SampleRecord())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if result.ID != "job-1" || result.Filename != "curriculo_Ana_Souza.pdf" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Path != filepath.Join(dir, "curriculo_Ana_Souza.pdf") {
		t.Fatalf("unexpected path %s", result.Path)
	}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "%PDF-1.7 stub" || result.Bytes != len(data) {
		t.Fatalf("unexpected file content %q", data)
	}
	if names := dirEntries(t, dir); len(names) != 1 {
		t.Fatalf("expected only the pdf in the output dir, got %v", names)
	}
	if rasterizer.opts != export.A4() {
		t.Fatalf("unexpected page options %+v", rasterizer.opts)
	}
	if !strings.Contains(string(rasterizer.page), "➢ Analista De Sistemas — Acme Corp") {
		t.Fatalf("rasterizer did not receive the rendered page")
	}
}

func TestExporter_ValidationBlocksExport(t *testing.T) {
	rasterizer := &stubRasterizer{}
	exporter, dir := localExporter(t, rasterizer)

	rec := testsupport.SampleRecord()
	rec.Objective = ""

	_, err := exporter.Export(context.Background(), rec)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if errors.Is(err, export.ErrExportFailed) {
		t.Fatalf("validation must not be reported as an export failure")
	}
	if verr.Message() != model.RequiredMessagePrefix+"Objetivo." {
		t.Fatalf("unexpected message %q", verr.Message())
	}
	if rasterizer.calls.Load() != 0 {
		t.Fatalf("rasterizer must not run")
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("expected no files, got %v", names)
	}
}

func TestExporter_FailureLeavesNoPartialFile(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rasterizer := &stubRasterizer{err: errors.New("chrome crashed")}
	exporter, dir := localExporter(t, rasterizer, export.WithLogger(zap.New(core)))

	_, err := exporter.Export(context.Background(), testsupport.SampleRecord())
	if !errors.Is(err, export.ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
	var failure *export.Failure
	if !errors.As(err, &failure) || failure.Stage != "produce" || failure.ID != "job-1" {
		t.Fatalf("unexpected failure %#v", err)
	}
	if failure.Message() != export.UserMessage {
		t.Fatalf("unexpected user message %q", failure.Message())
	}
	if !strings.Contains(err.Error(), "chrome crashed") {
		t.Fatalf("cause missing from %v", err)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("expected no files, got %v", names)
	}
	if logs.FilterMessage("export failed").Len() != 1 {
		t.Fatalf("expected failure to be logged")
	}

	// Retry with a working rasterizer succeeds.
	rasterizer.err = nil
	if _, err := exporter.Export(context.Background(), testsupport.SampleRecord()); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestExporter_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	backend := export.BackendFunc(func(context.Context, model.Record) ([]byte, error) {
		return []byte("%PDF"), nil
	})
	exporter := export.New(backend, export.WithOutputDir(filepath.Join(blocker, "out")))

	_, err := exporter.Export(context.Background(), testsupport.SampleRecord())
	var failure *export.Failure
	if !errors.As(err, &failure) || failure.Stage != "save" {
		t.Fatalf("expected save failure, got %v", err)
	}
}

func TestExporter_NameCannotEscapeOutputDir(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	backend := export.BackendFunc(func(context.Context, model.Record) ([]byte, error) {
		return []byte("%PDF"), nil
	})
	exporter := export.New(backend, export.WithOutputDir(out))

	form, err := model.FromRecord(testsupport.SampleRecord())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	form.SetScalar(model.FieldName, "a/../../x/pwn")

	result, err := exporter.Export(context.Background(), form.Snapshot())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Dir(result.Path) != out {
		t.Fatalf("export escaped the output dir: %s", result.Path)
	}
	if _, err := os.Stat(filepath.Join(root, "x")); !os.IsNotExist(err) {
		t.Fatalf("unexpected directory outside the output dir: %v", err)
	}
	if names := dirEntries(t, out); len(names) != 1 || names[0] != result.Filename {
		t.Fatalf("unexpected output dir content %v", names)
	}
}

func TestExporter_EmptyDocumentFails(t *testing.T) {
	backend := export.BackendFunc(func(context.Context, model.Record) ([]byte, error) {
		return nil, nil
	})
	exporter := export.New(backend, export.WithOutputDir(t.TempDir()))
	if _, err := exporter.Export(context.Background(), testsupport.SampleRecord()); !errors.Is(err, export.ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
}

func TestExporter_StartUsesSnapshotAndIgnoresCancel(t *testing.T) {
	release := make(chan struct{})
	var seen model.Record
	backend := export.BackendFunc(func(ctx context.Context, rec model.Record) ([]byte, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen = rec
		return []byte("%PDF"), nil
	})
	dir := t.TempDir()
	exporter := export.New(backend, export.WithOutputDir(dir))

	ctx, cancel := context.WithCancel(context.Background())
	rec := testsupport.SampleRecord()
	outcomes := exporter.Start(ctx, rec)

	rec.Name = "Outra Pessoa"
	rec.Jobs[0].Responsibilities[0] = "changed"
	cancel()
	close(release)

	select {
	case outcome, ok := <-outcomes:
		if !ok {
			t.Fatalf("channel closed without outcome")
		}
		if outcome.Err != nil {
			t.Fatalf("export: %v", outcome.Err)
		}
		if outcome.Result.Filename != "curriculo_Ana_Souza.pdf" {
			t.Fatalf("export must use the snapshot taken at start, got %s", outcome.Result.Filename)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for export")
	}
	if _, ok := <-outcomes; ok {
		t.Fatalf("expected channel closed after one outcome")
	}
	if seen.Jobs[0].Responsibilities[0] != "Suporte a clientes" {
		t.Fatalf("backend saw a later edit: %q", seen.Jobs[0].Responsibilities[0])
	}
}
