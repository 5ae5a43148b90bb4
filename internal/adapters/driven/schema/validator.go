// Package schema validates XWS documents against a JSON schema.
//
// The XWS 1.0.0 schema is embedded; a schema file on disk can be used
// instead. Compilation uses github.com/santhosh-tekuri/jsonschema/v5.
package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SchemaValidator = (*Validator)(nil)

//go:embed xws_schema.json
var embeddedSchema []byte

// embeddedURL is the resource name the embedded schema is compiled under.
const embeddedURL = "embedded:///xws_schema.json"

// Validator checks documents against a compiled schema.
// It is immutable and safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
	source string
}

// NewValidator compiles the schema at path, or the embedded XWS 1.0.0
// schema when path is empty.
func NewValidator(path string) (*Validator, error) {
	if path == "" {
		return compile(embeddedURL, embeddedSchema)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &domain.DataLoadError{Collection: "schema", Source: path, Err: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &domain.DataLoadError{Collection: "schema", Source: abs, Err: err}
	}
	return compile(abs, raw)
}

// EmbeddedSchema returns a copy of the bundled XWS schema document.
func EmbeddedSchema() []byte {
	return bytes.Clone(embeddedSchema)
}

func compile(url string, raw []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, &domain.DataLoadError{Collection: "schema", Source: url, Err: fmt.Errorf("adding schema resource: %w", err)}
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, &domain.DataLoadError{Collection: "schema", Source: url, Err: fmt.Errorf("compiling schema: %w", err)}
	}
	return &Validator{schema: schema, source: url}, nil
}

// Source returns the location the schema was compiled from.
func (v *Validator) Source() string {
	return v.source
}

// Validate checks doc. Violations are reported as a
// *domain.SchemaValidationError listing every leaf failure.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &domain.SchemaValidationError{Err: err}
	}

	return &domain.SchemaValidationError{
		Causes: leafMessages(verr, nil),
		Err:    err,
	}
}

// leafMessages flattens the cause tree into "location: message" lines.
func leafMessages(verr *jsonschema.ValidationError, out []string) []string {
	if len(verr.Causes) == 0 {
		location := verr.InstanceLocation
		if location == "" {
			location = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", location, verr.Message))
	}
	for _, cause := range verr.Causes {
		out = leafMessages(cause, out)
	}
	return out
}
