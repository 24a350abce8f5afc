package domain

import "time"

// SearchQuery configures a cross-source search.
type SearchQuery struct {
	// Query is the search text.
	Query string

	// Sources restricts the search to specific source types.
	// Empty means all connected sources.
	Sources []SourceType

	// TopicID, when set, excludes records already linked to that topic
	// from the results.
	TopicID string

	// After and Before bound the occurrence time, zero when unbounded.
	After  time.Time
	Before time.Time

	// MaxResults caps the results per source. Defaults to 20.
	MaxResults int
}

// RankedRecord is a search candidate with a relevance judgement.
type RankedRecord struct {
	// Record is the candidate.
	Record Record

	// Score is the relevance in [0,1], nil when ranking was
	// unavailable and the candidate is returned unranked.
	Score *float64

	// Reason is the backend's one-line justification for the score.
	Reason string
}
