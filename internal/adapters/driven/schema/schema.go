// Package schema provides JSON Schema validation using gojsonschema.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Ensure the adapter implements the ports.
var (
	_ driven.Schema         = (*Schema)(nil)
	_ driven.SchemaCompiler = (*Compiler)(nil)
)

// Compiler compiles JSON Schema definitions.
type Compiler struct{}

// NewCompiler creates a schema compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile parses a JSON Schema definition so it can validate documents.
func (c *Compiler) Compile(definition string) (driven.Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definition))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, definition: definition}, nil
}

// Schema is a compiled JSON Schema.
type Schema struct {
	compiled   *gojsonschema.Schema
	definition string
}

// Validate checks data against the schema.
func (s *Schema) Validate(data []byte) []domain.SchemaViolation {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return []domain.SchemaViolation{{Field: "(root)", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]domain.SchemaViolation, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		field := resultError.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, domain.SchemaViolation{
			Field:   field,
			Message: resultError.Description(),
		})
	}
	return violations
}

// Definition returns the schema source text.
func (s *Schema) Definition() string {
	return s.definition
}
