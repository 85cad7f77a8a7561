package httpapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var contractYAML []byte

// ContractYAML returns the OpenAPI document served at /openapi.yaml.
func ContractYAML() []byte {
	return append([]byte(nil), contractYAML...)
}

// Contract is the loaded OpenAPI document plus the request body schema of
// POST /generate_pdf.
type Contract struct {
	Doc         *openapi3.T
	RequestBody *openapi3.Schema
}

// LoadContract parses and validates the embedded OpenAPI document.
func LoadContract(ctx context.Context) (*Contract, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("httpapi: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("httpapi: validate contract: %w", err)
	}

	item := doc.Paths.Find(GeneratePath)
	if item == nil || item.Post == nil || item.Post.RequestBody == nil || item.Post.RequestBody.Value == nil {
		return nil, errors.New("httpapi: contract has no request body for " + GeneratePath)
	}
	media := item.Post.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("httpapi: contract has no json schema for " + GeneratePath)
	}
	return &Contract{Doc: doc, RequestBody: media.Schema.Value}, nil
}

// BodyPointerPrefix prefixes the JSON pointers of body violations.
const BodyPointerPrefix = "/body"

// Violation is one failed constraint of a request body.
type Violation struct {
	// Pointer is the JSON pointer of the offending value, such as
	// "/body/formacoes/0/status".
	Pointer string
	Message string
}

// BodyError lists every constraint a request body failed.
type BodyError struct {
	Violations []Violation
}

func (e *BodyError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Pointer+": "+v.Message)
	}
	return "httpapi: request body: " + strings.Join(parts, "; ")
}

// Payload groups the messages by pointer, ready for render.MapErrorPayload.
func (e *BodyError) Payload() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Pointer] = append(out[v.Pointer], v.Message)
	}
	return out
}

// ValidateBody checks a decoded JSON value against the request body schema.
// Failures are reported as a *BodyError holding every violation.
func (c *Contract) ValidateBody(value any) error {
	if c == nil || c.RequestBody == nil {
		return nil
	}
	err := c.RequestBody.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var violations []Violation
	collectViolations(err, &violations)
	return &BodyError{Violations: violations}
}

func collectViolations(err error, out *[]Violation) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectViolations(inner, out)
		}
	case *openapi3.SchemaError:
		if multi, ok := e.Origin.(openapi3.MultiError); ok {
			collectViolations(multi, out)
			return
		}
		message := e.Reason
		if message == "" {
			message = e.Error()
		}
		*out = append(*out, Violation{Pointer: pointer(e.JSONPointer()), Message: message})
	default:
		*out = append(*out, Violation{Pointer: BodyPointerPrefix, Message: err.Error()})
	}
}

func pointer(segments []string) string {
	var b strings.Builder
	b.WriteString(BodyPointerPrefix)
	for _, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		segment = strings.ReplaceAll(segment, "/", "~1")
		b.WriteString("/" + segment)
	}
	return b.String()
}
