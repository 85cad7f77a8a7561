package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/preview"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithOutputDir sets the directory files are written to. Defaults to ".".
func WithOutputDir(dir string) Option {
	return func(e *Exporter) {
		if dir != "" {
			e.dir = dir
		}
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid job id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Result describes a completed export.
type Result struct {
	ID       string
	Path     string
	Filename string
	Bytes    int
}

// Outcome is delivered by Start once the export settles.
type Outcome struct {
	Result Result
	Err    error
}

// Exporter writes the PDF of a snapshot to disk.
type Exporter struct {
	backend Backend
	dir     string
	logger  *zap.Logger
	newID   func() string
}

// New constructs an Exporter around backend.
func New(backend Backend, options ...Option) *Exporter {
	e := &Exporter{
		backend: backend,
		dir:     ".",
		logger:  zap.NewNop(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Export validates rec, produces the PDF and saves it as
// curriculo_<name>.pdf. A *model.ValidationError blocks the export before the
// backend runs; any later failure is a *Failure and leaves no file behind.
func (e *Exporter) Export(ctx context.Context, rec model.Record) (Result, error) {
	id := e.newID()
	logger := e.logger.With(zap.String("export_id", id))

	if err := model.Validate(rec); err != nil {
		logger.Info("export blocked by validation", zap.Error(err))
		return Result{}, err
	}
	if e.backend == nil {
		return Result{}, e.fail(logger, id, "produce", errors.New("backend is nil"))
	}

	pdf, err := e.backend.Produce(ctx, rec)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			logger.Info("export rejected by backend validation", zap.Error(err))
			return Result{}, verr
		}
		return Result{}, e.fail(logger, id, "produce", err)
	}
	if len(pdf) == 0 {
		return Result{}, e.fail(logger, id, "produce", errors.New("empty document"))
	}

	filename := preview.Filename(rec.Name)
	if filepath.Base(filename) != filename {
		return Result{}, e.fail(logger, id, "save", fmt.Errorf("unsafe filename %q", filename))
	}
	path := filepath.Join(e.dir, filename)
	if err := writeAtomic(e.dir, path, pdf); err != nil {
		return Result{}, e.fail(logger, id, "save", err)
	}

	logger.Info("export completed", zap.String("path", path), zap.Int("bytes", len(pdf)))
	return Result{ID: id, Path: path, Filename: filename, Bytes: len(pdf)}, nil
}

// Start runs Export in its own goroutine on a copy of rec taken now. The
// export is detached from ctx cancellation and cannot be stopped once
// started. The channel receives exactly one Outcome and is then closed.
func (e *Exporter) Start(ctx context.Context, rec model.Record) <-chan Outcome {
	snapshot := rec.Clone()
	detached := context.WithoutCancel(ctx)
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		result, err := e.Export(detached, snapshot)
		out <- Outcome{Result: result, Err: err}
	}()
	return out
}

func (e *Exporter) fail(logger *zap.Logger, id, stage string, err error) error {
	logger.Error("export failed", zap.String("stage", stage), zap.Error(err))
	return &Failure{ID: id, Stage: stage, Err: err}
}

// writeAtomic writes data to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, data []byte) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".curriculo-*.pdf.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
