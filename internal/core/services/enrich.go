package services

import (
	"context"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
	"github.com/custodia-labs/topicos/internal/logger"
)

var _ driving.EnrichmentService = (*Enricher)(nil)

const (
	// maxBodyLength caps stored content; overlong bodies are truncated,
	// never rejected.
	maxBodyLength = 20000

	// fetchTimeout bounds a single content fetch.
	fetchTimeout = 10 * time.Second
)

// Enricher fetches full content for records that only carry metadata
// and snippets from search.
type Enricher struct {
	connectors map[domain.SourceType]driven.SourceConnector
	records    driven.RecordStore
}

// NewEnricher creates an enrichment service.
func NewEnricher(connectors map[domain.SourceType]driven.SourceConnector, records driven.RecordStore) *Enricher {
	return &Enricher{connectors: connectors, records: records}
}

// EnrichOne ensures one record carries its full content. The operation
// is idempotent: a record that already has a body is left untouched.
func (e *Enricher) EnrichOne(ctx context.Context, owner string, record domain.Record) domain.EnrichmentOutcome {
	if record.Body != "" {
		return domain.EnrichmentOutcome{RecordID: record.ID, Body: record.Body, Cached: true, Succeeded: true}
	}
	if !record.Source.Fetchable() {
		return domain.EnrichmentOutcome{RecordID: record.ID, Succeeded: true}
	}

	connector, ok := e.connectors[record.Source]
	if !ok {
		return domain.EnrichmentOutcome{RecordID: record.ID, Succeeded: false, Err: domain.ErrSourceUnavailable}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	content, err := connector.FetchContent(fetchCtx, owner, record)
	if err != nil {
		logger.Warn("fetch content for %s failed: %v", record.Key(), err)
		return domain.EnrichmentOutcome{RecordID: record.ID, Succeeded: false, Err: err}
	}

	body := content.Body
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength]
	}

	if err := e.records.SetBody(ctx, owner, record.ID, body, content.Metadata); err != nil {
		return domain.EnrichmentOutcome{RecordID: record.ID, Succeeded: false, Err: err}
	}

	return domain.EnrichmentOutcome{
		RecordID:    record.ID,
		Body:        body,
		Attachments: content.Attachments,
		Metadata:    content.Metadata,
		Succeeded:   true,
	}
}

// EnrichMany enriches every fetchable record linked to the topic.
// Individual fetch failures are contained in the result, never fatal.
func (e *Enricher) EnrichMany(ctx context.Context, owner, topicID string) (*driving.EnrichResult, error) {
	records, err := e.records.ListForTopic(ctx, owner, topicID)
	if err != nil {
		return nil, err
	}

	result := &driving.EnrichResult{}
	for _, record := range records {
		if !record.Source.Fetchable() {
			continue
		}
		outcome := e.EnrichOne(ctx, owner, record)
		result.Outcomes = append(result.Outcomes, outcome)
		switch {
		case outcome.Succeeded && !outcome.Cached && outcome.Body != "":
			result.Enriched++
		case !outcome.Succeeded:
			result.Failed++
		}
	}

	logger.Debug("enriched topic %s: %d fetched, %d failed", topicID, result.Enriched, result.Failed)
	return result, nil
}
