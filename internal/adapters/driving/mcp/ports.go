package mcp

import (
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides cross-source search.
	Search driving.SearchService

	// Context composes prompt-ready topic context.
	Context driving.ContextService

	// Find provides AI-ranked topic search. Optional; the tool is
	// not registered when nil.
	Find driving.FindService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Context == nil {
		return ErrMissingContextService
	}
	return nil
}
