// Package jsonwire serializes the record snapshot in the historical wire
// format posted to /generate_pdf.
package jsonwire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
)

// Name is the registry name of the json renderer.
const Name = "json"

// ErrRecordRequired is returned when RenderOptions carries no record.
var ErrRecordRequired = errors.New("jsonwire: record is required")

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the output with the given indent. An empty indent
// produces compact JSON.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer writes the wire JSON of RenderOptions.Record. The preview document
// is ignored: the wire format carries raw field values, not display text.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer. Output is indented with two spaces by default.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, _ preview.Document, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Record == nil {
		return nil, ErrRecordRequired
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(opts.Record); err != nil {
		return nil, fmt.Errorf("jsonwire: encode record: %w", err)
	}
	return buf.Bytes(), nil
}
