package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Ensure TopicStore implements the interface.
var _ driven.TopicStore = (*TopicStore)(nil)

// TopicStore is an in-memory implementation of driven.TopicStore.
type TopicStore struct {
	mu     sync.RWMutex
	topics map[string]domain.Topic
	tasks  map[string][]domain.Task
	notes  map[string][]domain.Note
}

// NewTopicStore creates a new in-memory topic store.
func NewTopicStore() *TopicStore {
	return &TopicStore{
		topics: make(map[string]domain.Topic),
		tasks:  make(map[string][]domain.Task),
		notes:  make(map[string][]domain.Note),
	}
}

// Save stores or updates a topic, assigning an ID when absent.
func (s *TopicStore) Save(_ context.Context, topic domain.Topic) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now()
	}
	topic.UpdatedAt = time.Now()
	s.topics[topic.ID] = topic
	return topic.ID, nil
}

// Get retrieves a topic by ID.
func (s *TopicStore) Get(_ context.Context, owner, topicID string) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[topicID]
	if !ok || topic.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return &topic, nil
}

// ListActive returns the owner's non-archived topics, optionally
// filtered by area.
func (s *TopicStore) ListActive(_ context.Context, owner, area string) ([]domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Topic
	for _, topic := range s.topics {
		if topic.Owner != owner || topic.Archived {
			continue
		}
		if area != "" && topic.Area != area {
			continue
		}
		result = append(result, topic)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Ancestors returns the topic's ancestors nearest first, at most two.
func (s *TopicStore) Ancestors(_ context.Context, owner, topicID string) ([]domain.AncestorTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ancestors []domain.AncestorTopic
	current, ok := s.topics[topicID]
	if !ok || current.Owner != owner {
		return nil, domain.ErrNotFound
	}
	for range 2 {
		if current.ParentID == "" {
			break
		}
		parent, ok := s.topics[current.ParentID]
		if !ok || parent.Owner != owner {
			break
		}
		ancestors = append(ancestors, domain.AncestorTopic{
			ID:          parent.ID,
			Title:       parent.Title,
			Description: parent.Description,
			Goal:        parent.Goal,
		})
		current = parent
	}
	return ancestors, nil
}

// UpdateSummary stores the deep-dive result on the topic.
func (s *TopicStore) UpdateSummary(_ context.Context, owner, topicID, summary string, nextSteps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic, ok := s.topics[topicID]
	if !ok || topic.Owner != owner {
		return domain.ErrNotFound
	}
	topic.Summary = summary
	topic.NextSteps = nextSteps
	topic.UpdatedAt = time.Now()
	s.topics[topicID] = topic
	return nil
}

// AddTask attaches a task to a topic.
func (s *TopicStore) AddTask(_ context.Context, task domain.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	s.tasks[task.TopicID] = append(s.tasks[task.TopicID], task)
	return task.ID, nil
}

// ListTasks returns the topic's tasks.
func (s *TopicStore) ListTasks(_ context.Context, owner, topicID string) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[topicID]
	if !ok || topic.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Task(nil), s.tasks[topicID]...), nil
}

// AddNote attaches a note to a topic.
func (s *TopicStore) AddNote(_ context.Context, note domain.Note) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	s.notes[note.TopicID] = append(s.notes[note.TopicID], note)
	return note.ID, nil
}

// ListNotes returns the topic's notes oldest first.
func (s *TopicStore) ListNotes(_ context.Context, owner, topicID string) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[topicID]
	if !ok || topic.Owner != owner {
		return nil, domain.ErrNotFound
	}
	notes := append([]domain.Note(nil), s.notes[topicID]...)
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}
