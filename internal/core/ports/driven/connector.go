package driven

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// SourceConnector talks to one external content source on behalf of
// one account. Connectors are optional: the application works with
// whatever subset is configured, and a missing connector is never an
// error for the system as a whole.
type SourceConnector interface {
	// Source returns the source type this connector serves.
	Source() domain.SourceType

	// AccountRef identifies the connected account.
	AccountRef() string

	// Search finds records matching the query. Results carry metadata
	// and snippets but not full bodies.
	Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error)

	// FetchContent retrieves the full content for one record.
	FetchContent(ctx context.Context, owner string, record domain.Record) (*domain.Content, error)

	// Close releases any resources held by the connector.
	Close() error
}
