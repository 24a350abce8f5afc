package driving

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// SearchService searches across configured sources.
type SearchService interface {
	// Search fans the query out to the configured connectors and
	// returns the merged, deduplicated results. When query.TopicID is
	// set, records already linked to that topic are excluded.
	Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error)
}

// FindService searches for content relevant to a specific topic.
type FindService interface {
	// Find searches all sources scoped to a topic and returns
	// candidates ranked by AI-judged relevance, best first.
	Find(ctx context.Context, owner, topicID, query string) ([]domain.RankedRecord, error)
}
