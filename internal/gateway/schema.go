// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID returns the $id of the request schema for operation.
func SchemaID(operation string) string {
	return "https://gamegate.dev/schemas/" + operation + ".request.schema.json"
}

// GenerateSchema generates the JSON Schema of a request type. Unknown
// properties are allowed; only fields tagged jsonschema:"required" are
// required.
func GenerateSchema(operation string, sample any) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(sample)

	schema.ID = jsonschema.ID(SchemaID(operation))
	schema.Title = operation + " request"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code(CodeSchemaCompile).
			With("operation", operation).
			Wrap(err)
	}
	return data, nil
}

// Schemas holds one compiled request schema per operation.
type Schemas struct {
	raw      map[string][]byte
	compiled map[string]*jschema.Schema
}

// BuildSchemas generates and compiles the request schema of every entry.
func BuildSchemas(entries []Entry) (*Schemas, error) {
	s := &Schemas{
		raw:      make(map[string][]byte, len(entries)),
		compiled: make(map[string]*jschema.Schema, len(entries)),
	}
	c := jschema.NewCompiler()

	for _, e := range entries {
		data, err := GenerateSchema(e.Name, e.sample)
		if err != nil {
			return nil, err
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, oops.Code(CodeSchemaCompile).With("operation", e.Name).Wrap(err)
		}
		if err := c.AddResource(SchemaID(e.Name), doc); err != nil {
			return nil, oops.Code(CodeSchemaCompile).With("operation", e.Name).Wrap(err)
		}
		s.raw[e.Name] = data
	}

	for _, e := range entries {
		sch, err := c.Compile(SchemaID(e.Name))
		if err != nil {
			return nil, oops.Code(CodeSchemaCompile).With("operation", e.Name).Wrap(err)
		}
		s.compiled[e.Name] = sch
	}
	return s, nil
}

// Validate checks that body is a JSON document matching the request shape
// of operation.
func (s *Schemas) Validate(operation string, body []byte) error {
	sch, ok := s.compiled[operation]
	if !ok {
		return ErrMalformedRequest(operation, oops.Errorf("no schema for operation"))
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return ErrMalformedRequest(operation, err)
	}
	if err := sch.Validate(doc); err != nil {
		return ErrMalformedRequest(operation, err)
	}
	return nil
}

// JSON returns the generated schema document for operation.
func (s *Schemas) JSON(operation string) ([]byte, bool) {
	data, ok := s.raw[operation]
	return data, ok
}
