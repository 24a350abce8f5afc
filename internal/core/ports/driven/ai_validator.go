package driven

import "github.com/custodia-labs/topicos/internal/core/domain"

// CompletionConfigValidator validates completion provider settings by
// actually reaching the backend, not just checking field shapes.
type CompletionConfigValidator interface {
	// ValidateCompletion checks that the settings identify a reachable,
	// working backend.
	ValidateCompletion(config *domain.CompletionSettings) error
}
