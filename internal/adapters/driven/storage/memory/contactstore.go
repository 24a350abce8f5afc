package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Ensure ContactStore implements the interface.
var _ driven.ContactStore = (*ContactStore)(nil)

// ContactStore is an in-memory implementation of driven.ContactStore.
type ContactStore struct {
	mu       sync.RWMutex
	contacts map[string]domain.Contact
	links    map[string]map[string]bool // contact ID -> topic IDs
}

// NewContactStore creates a new in-memory contact store.
func NewContactStore() *ContactStore {
	return &ContactStore{
		contacts: make(map[string]domain.Contact),
		links:    make(map[string]map[string]bool),
	}
}

// Save stores or updates a contact, assigning an ID when absent.
func (s *ContactStore) Save(_ context.Context, contact domain.Contact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	s.contacts[contact.ID] = contact
	return contact.ID, nil
}

// List returns the owner's contacts.
func (s *ContactStore) List(_ context.Context, owner string) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Contact
	for _, contact := range s.contacts {
		if contact.Owner == owner {
			result = append(result, contact)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// LinkToTopic associates a contact with a topic. Re-linking is a no-op.
func (s *ContactStore) LinkToTopic(_ context.Context, owner, contactID, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[contactID]
	if !ok || contact.Owner != owner {
		return domain.ErrNotFound
	}
	if s.links[contactID] == nil {
		s.links[contactID] = make(map[string]bool)
	}
	s.links[contactID][topicID] = true
	return nil
}

// LinkedTopics returns the topic IDs linked to a contact.
func (s *ContactStore) LinkedTopics(_ context.Context, owner, contactID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[contactID]
	if !ok || contact.Owner != owner {
		return nil, domain.ErrNotFound
	}
	topics := make([]string, 0, len(s.links[contactID]))
	for topicID := range s.links[contactID] {
		topics = append(topics, topicID)
	}
	sort.Strings(topics)
	return topics, nil
}
