package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
)

var _ driving.StatsService = (*StatsEngine)(nil)

// recentScanLimit bounds the record scan per stats computation.
const recentScanLimit = 500

// identityMetadataKeys are the metadata fields checked for mentions.
var identityMetadataKeys = []string{"from", "to", "cc", "bcc", "attendees", "author", "username"}

// StatsEngine computes interaction statistics for contacts from the
// owner's recent records.
type StatsEngine struct {
	records driven.RecordStore
}

// NewStatsEngine creates a stats service.
func NewStatsEngine(records driven.RecordStore) *StatsEngine {
	return &StatsEngine{records: records}
}

// ComputeStats scans recent records for mentions of the contact by
// email or full name and aggregates count, recency, and topic spread.
func (s *StatsEngine) ComputeStats(ctx context.Context, owner string, contact domain.Contact) (*domain.ContactStats, error) {
	records, err := s.records.ListRecent(ctx, owner, recentScanLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}

	email := strings.ToLower(contact.Email)
	name := strings.ToLower(contact.Name)
	if len(name) < minNameLength {
		name = ""
	}

	stats := &domain.ContactStats{}
	seenTopics := make(map[string]bool)
	for _, record := range records {
		if !mentions(record, email, name) {
			continue
		}
		stats.Count++
		// Records arrive most recent first.
		if stats.LastInteractionAt == nil && !record.OccurredAt.IsZero() {
			at := record.OccurredAt
			stats.LastInteractionAt = &at
		}
		if record.TopicID != "" && !seenTopics[record.TopicID] {
			seenTopics[record.TopicID] = true
			stats.TopicIDs = append(stats.TopicIDs, record.TopicID)
		}
	}
	return stats, nil
}

func mentions(record domain.Record, email, name string) bool {
	var sb strings.Builder
	for _, key := range identityMetadataKeys {
		if v, ok := record.Metadata[key]; ok {
			fmt.Fprintf(&sb, "%v\n", v)
		}
	}
	sb.WriteString(record.Title)
	sb.WriteString("\n")
	sb.WriteString(record.Snippet)
	sb.WriteString("\n")
	sb.WriteString(record.Body)

	haystack := strings.ToLower(sb.String())
	if email != "" && strings.Contains(haystack, email) {
		return true
	}
	if name != "" && strings.Contains(haystack, name) {
		return true
	}
	return false
}
