package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
)

// readRecord loads a record file and passes it through the form normalizers.
// "-" reads JSON from stdin; other paths are decoded by extension, YAML by
// default.
func (a *app) readRecord(path string) (model.Record, error) {
	var (
		rec model.Record
		err error
	)
	switch {
	case path == "-":
		rec, err = model.DecodeJSON(a.stdin)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		rec, err = decodeFile(path, model.DecodeJSON)
	default:
		rec, err = decodeFile(path, model.DecodeYAML)
	}
	if err != nil {
		return model.Record{}, err
	}

	form, err := model.FromRecord(rec, a.formOptions()...)
	if err != nil {
		return model.Record{}, fmt.Errorf("record %s: %w", path, err)
	}
	return form.Snapshot(), nil
}

func decodeFile(path string, decode func(io.Reader) (model.Record, error)) (model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Record{}, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// saveRecord writes rec as YAML.
func saveRecord(path string, rec model.Record) error {
	var buf bytes.Buffer
	if err := model.EncodeYAML(&buf, rec); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// describe turns pipeline errors into the message shown to the user.
func describe(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Message()
	}
	var failure *export.Failure
	if errors.As(err, &failure) {
		return failure.Message()
	}
	return err.Error()
}
