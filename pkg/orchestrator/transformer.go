package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-curriculo/pkg/preview"
)

// Transformer mutates a preview Document after it is built and before it is
// rendered.
type Transformer interface {
	Transform(ctx context.Context, doc *preview.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *preview.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *preview.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer replaces the built-in placeholders with text loaded
// from a JSON document, for example to preview in another language:
//
//	{
//	  "placeholders": {"name": "FULL NAME", "age": "age", "city": "City"},
//	  "empty": "n/a"
//	}
//
// Only values that still hold the built-in placeholder are replaced.
type JSONPresetTransformer struct {
	document jsonPresetDocument
}

type jsonPresetDocument struct {
	Placeholders map[string]string `json:"placeholders"`
	Empty        string            `json:"empty"`
}

var placeholderTargets = map[string]struct {
	fallback string
	field    func(*preview.Header) *string
}{
	"name":  {preview.PlaceholderName, func(h *preview.Header) *string { return &h.Name }},
	"email": {preview.PlaceholderEmail, func(h *preview.Header) *string { return &h.Email }},
	"phone": {preview.PlaceholderPhone, func(h *preview.Header) *string { return &h.Phone }},
	"age":   {preview.PlaceholderAge, func(h *preview.Header) *string { return &h.Age }},
	"city":  {preview.PlaceholderCity, func(h *preview.Header) *string { return &h.City }},
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonPresetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for key := range document.Placeholders {
		if _, ok := placeholderTargets[key]; !ok {
			return nil, fmt.Errorf("json preset transformer: unknown placeholder %q", key)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the preset onto doc.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *preview.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, value := range t.document.Placeholders {
		target := placeholderTargets[key]
		if field := target.field(&doc.Header); *field == target.fallback {
			*field = value
		}
	}
	if empty := t.document.Empty; empty != "" && doc.Objective == preview.Empty {
		doc.Objective = empty
	}
	return nil
}
