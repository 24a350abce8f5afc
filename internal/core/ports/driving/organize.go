package driving

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// EnrichResult summarises a batch enrichment run.
type EnrichResult struct {
	// Enriched is the number of records that newly gained content.
	Enriched int

	// Failed is the number of records whose fetch failed.
	Failed int

	// Outcomes are the per-record details, in input order.
	Outcomes []domain.EnrichmentOutcome
}

// EnrichmentService fetches full content for linked records.
type EnrichmentService interface {
	// EnrichOne ensures one record has its full content. Already
	// enriched records are skipped; failures are reported in the
	// outcome, never as an error.
	EnrichOne(ctx context.Context, owner string, record domain.Record) domain.EnrichmentOutcome

	// EnrichMany enriches all fetchable records linked to a topic.
	EnrichMany(ctx context.Context, owner, topicID string) (*EnrichResult, error)
}

// PipelineRunner runs the batch pipeline over active topics.
type PipelineRunner interface {
	// Run processes every active topic in the area (all areas when
	// empty) through enrichment, contact extraction, and deep dive.
	// It returns immediately with a channel of progress events; the
	// channel is closed when the run finishes or ctx is cancelled.
	Run(ctx context.Context, owner, area string) (<-chan domain.ProgressEvent, error)
}

// ContextService assembles prompt material for a topic.
type ContextService interface {
	// Compose builds the full prompt-ready context document for one
	// topic: ground truth first, then prior analysis, notes, tasks,
	// linked records, and ancestor context.
	Compose(ctx context.Context, owner, topicID string) (string, error)
}

// StatsService computes interaction statistics.
type StatsService interface {
	// ComputeStats scans recent records for interactions with the
	// contact and aggregates counts, recency, and topic spread.
	ComputeStats(ctx context.Context, owner string, contact domain.Contact) (*domain.ContactStats, error)
}
