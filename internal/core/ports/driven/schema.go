package driven

import "github.com/custodia-labs/topicos/internal/core/domain"

// Schema validates data against a structural contract.
type Schema interface {
	// Validate checks data against the schema and returns the
	// violations found, nil when the data conforms.
	Validate(data []byte) []domain.SchemaViolation

	// Definition returns the schema source text, suitable for
	// embedding in a prompt.
	Definition() string
}

// SchemaCompiler turns a schema definition into a usable Schema.
type SchemaCompiler interface {
	// Compile parses and validates a schema definition.
	Compile(definition string) (Schema, error)
}
