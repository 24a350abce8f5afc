package driven

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// TopicStore persists topics and their tasks and notes.
type TopicStore interface {
	// Get returns one topic by ID. Returns domain.ErrNotFound when it
	// does not exist or belongs to another owner.
	Get(ctx context.Context, owner, topicID string) (*domain.Topic, error)

	// ListActive returns the owner's non-archived topics, optionally
	// filtered by area (empty area means all areas).
	ListActive(ctx context.Context, owner, area string) ([]domain.Topic, error)

	// Ancestors returns the topic's ancestors nearest first, at most
	// two levels up.
	Ancestors(ctx context.Context, owner, topicID string) ([]domain.AncestorTopic, error)

	// UpdateSummary stores the AI deep-dive result on the topic.
	UpdateSummary(ctx context.Context, owner, topicID, summary string, nextSteps []string) error

	// ListTasks returns the topic's tasks.
	ListTasks(ctx context.Context, owner, topicID string) ([]domain.Task, error)

	// ListNotes returns the topic's notes oldest first.
	ListNotes(ctx context.Context, owner, topicID string) ([]domain.Note, error)
}

// RecordStore persists records and their topic links.
type RecordStore interface {
	// ListForTopic returns the records linked to a topic, most recent
	// first.
	ListForTopic(ctx context.Context, owner, topicID string) ([]domain.Record, error)

	// ListRecent returns the owner's records across all topics, most
	// recent first, capped at limit.
	ListRecent(ctx context.Context, owner string, limit int) ([]domain.Record, error)

	// LinkedKeys returns the source-scoped keys of records already
	// linked to the topic, for dedup against fresh search results.
	LinkedKeys(ctx context.Context, owner, topicID string) (map[string]bool, error)

	// SetBody stores fetched content on a record.
	SetBody(ctx context.Context, owner, recordID, body string, metadata map[string]any) error

	// Upsert inserts or updates a record keyed by (source, external ID).
	Upsert(ctx context.Context, owner string, record domain.Record) error
}

// ContactStore persists contacts and their topic links.
type ContactStore interface {
	// List returns the owner's contacts.
	List(ctx context.Context, owner string) ([]domain.Contact, error)

	// LinkToTopic associates a contact with a topic. Linking an
	// already-linked pair is a no-op, not an error.
	LinkToTopic(ctx context.Context, owner, contactID, topicID string) error
}
