package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record // by internal ID
	byKey   map[string]string        // owner + record key -> internal ID
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
		byKey:   make(map[string]string),
	}
}

func ownerKey(owner string, record domain.Record) string {
	return owner + "\x00" + record.Key()
}

// Upsert inserts or updates a record keyed by (source, external ID).
// A bodiless update keeps any previously fetched body.
func (s *RecordStore) Upsert(_ context.Context, owner string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownerKey(owner, record)
	if existingID, ok := s.byKey[key]; ok {
		record.ID = existingID
		if record.Body == "" {
			record.Body = s.records[existingID].Body
		}
	} else if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.records[record.ID] = record
	s.byKey[key] = record.ID
	return nil
}

// ListForTopic returns the topic's records most recent first.
func (s *RecordStore) ListForTopic(_ context.Context, owner, topicID string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Record
	for _, record := range s.records {
		if record.TopicID == topicID && s.ownedBy(owner, record) {
			result = append(result, record)
		}
	}
	sortRecent(result)
	return result, nil
}

// ListRecent returns the owner's records most recent first, capped at
// limit.
func (s *RecordStore) ListRecent(_ context.Context, owner string, limit int) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Record
	for _, record := range s.records {
		if s.ownedBy(owner, record) {
			result = append(result, record)
		}
	}
	sortRecent(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LinkedKeys returns the keys of records linked to the topic.
func (s *RecordStore) LinkedKeys(_ context.Context, owner, topicID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[string]bool)
	for _, record := range s.records {
		if record.TopicID == topicID && s.ownedBy(owner, record) {
			keys[record.Key()] = true
		}
	}
	return keys, nil
}

// SetBody stores fetched content on a record.
func (s *RecordStore) SetBody(_ context.Context, owner, recordID, body string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[recordID]
	if !ok || !s.ownedBy(owner, record) {
		return domain.ErrNotFound
	}
	record.Body = body
	if len(metadata) > 0 {
		if record.Metadata == nil {
			record.Metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			record.Metadata[k] = v
		}
	}
	s.records[recordID] = record
	return nil
}

// ownedBy checks ownership through the key index. Caller holds the lock.
func (s *RecordStore) ownedBy(owner string, record domain.Record) bool {
	id, ok := s.byKey[ownerKey(owner, record)]
	return ok && id == record.ID
}

func sortRecent(records []domain.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})
}
