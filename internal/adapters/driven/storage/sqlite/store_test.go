package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again; already-applied versions skip.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestTopicStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	topics := store.TopicStore().(*topicStore)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	id, err := topics.Save(ctx, domain.Topic{
		Owner:       "alice",
		Area:        "work",
		Title:       "Q3 Budget",
		Description: "close the budget",
		Goal:        "signed off",
		Tags:        []string{"finance", "q3"},
		DueDate:     &due,
	})
	require.NoError(t, err)

	topic, err := topics.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "Q3 Budget", topic.Title)
	assert.Equal(t, []string{"finance", "q3"}, topic.Tags)
	require.NotNil(t, topic.DueDate)
	assert.True(t, due.Equal(*topic.DueDate))

	_, err = topics.Get(ctx, "bob", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTopicStoreListActiveFiltersArchivedAndArea(t *testing.T) {
	store := newTestStore(t)
	topics := store.TopicStore().(*topicStore)
	ctx := context.Background()

	_, err := topics.Save(ctx, domain.Topic{Owner: "alice", Area: "work", Title: "active"})
	require.NoError(t, err)
	_, err = topics.Save(ctx, domain.Topic{Owner: "alice", Area: "work", Title: "archived", Archived: true})
	require.NoError(t, err)
	_, err = topics.Save(ctx, domain.Topic{Owner: "alice", Area: "personal", Title: "other area"})
	require.NoError(t, err)

	work, err := topics.ListActive(ctx, "alice", "work")
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Equal(t, "active", work[0].Title)

	all, err := topics.ListActive(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTopicStoreAncestorsTwoLevels(t *testing.T) {
	store := newTestStore(t)
	topics := store.TopicStore().(*topicStore)
	ctx := context.Background()

	greatID, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "great"})
	require.NoError(t, err)
	grandID, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "grand", ParentID: greatID})
	require.NoError(t, err)
	parentID, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "parent", ParentID: grandID})
	require.NoError(t, err)
	childID, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "child", ParentID: parentID})
	require.NoError(t, err)

	ancestors, err := topics.Ancestors(ctx, "alice", childID)
	require.NoError(t, err)
	// The walk stops after two levels.
	require.Len(t, ancestors, 2)
	assert.Equal(t, "parent", ancestors[0].Title)
	assert.Equal(t, "grand", ancestors[1].Title)
}

func TestTopicStoreUpdateSummary(t *testing.T) {
	store := newTestStore(t)
	topics := store.TopicStore().(*topicStore)
	ctx := context.Background()

	id, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "T"})
	require.NoError(t, err)

	require.NoError(t, topics.UpdateSummary(ctx, "alice", id, "on track", []string{"ship"}))

	topic, err := topics.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "on track", topic.Summary)
	assert.Equal(t, []string{"ship"}, topic.NextSteps)

	assert.ErrorIs(t, topics.UpdateSummary(ctx, "bob", id, "x", nil), domain.ErrNotFound)
}

func TestTopicStoreTasksAndNotes(t *testing.T) {
	store := newTestStore(t)
	topics := store.TopicStore().(*topicStore)
	ctx := context.Background()

	id, err := topics.Save(ctx, domain.Topic{Owner: "alice", Title: "T"})
	require.NoError(t, err)

	_, err = topics.AddTask(ctx, domain.Task{TopicID: id, Title: "draft", Status: domain.TaskStatusOpen, Priority: 2})
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = topics.AddNote(ctx, domain.Note{TopicID: id, Text: "second", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = topics.AddNote(ctx, domain.Note{TopicID: id, Text: "first", CreatedAt: base})
	require.NoError(t, err)

	tasks, err := topics.ListTasks(ctx, "alice", id)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskStatusOpen, tasks[0].Status)
	assert.Equal(t, 2, tasks[0].Priority)

	notes, err := topics.ListNotes(ctx, "alice", id)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Text)
}

func TestRecordStoreUpsertAndQueries(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore().(*recordStore)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "first",
		OccurredAt: base,
		Metadata:   map[string]any{"from": "bob@x.com"},
	}))

	// Upsert on the same natural key updates in place.
	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "updated",
		OccurredAt: base,
	}))

	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-2",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "newer",
		OccurredAt: base.Add(time.Hour),
	}))

	linked, err := records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "newer", linked[0].Title)
	assert.Equal(t, "updated", linked[1].Title)

	recent, err := records.ListRecent(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "newer", recent[0].Title)

	keys, err := records.LinkedKeys(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mail:msg-1": true, "mail:msg-2": true}, keys)

	none, err := records.ListForTopic(ctx, "bob", "t1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordStoreUpsertKeepsEnrichedBody(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore().(*recordStore)
	ctx := context.Background()

	record := domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "mail",
	}
	require.NoError(t, records.Upsert(ctx, "alice", record))

	linked, err := records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	require.NoError(t, records.SetBody(ctx, "alice", linked[0].ID, "enriched content", nil))

	// A fresh search result for the same key carries no body.
	require.NoError(t, records.Upsert(ctx, "alice", record))

	linked, err = records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "enriched content", linked[0].Body)

	// An update that does carry a body replaces it.
	record.Body = "newer content"
	require.NoError(t, records.Upsert(ctx, "alice", record))
	linked, err = records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "newer content", linked[0].Body)
}

func TestRecordStoreSetBodyMergesMetadata(t *testing.T) {
	store := newTestStore(t)
	records := store.RecordStore().(*recordStore)
	ctx := context.Background()

	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Metadata:   map[string]any{"from": "bob@x.com"},
	}))

	linked, err := records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, linked, 1)

	require.NoError(t, records.SetBody(ctx, "alice", linked[0].ID, "full text", map[string]any{"thread": "th-1"}))

	linked, err = records.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "full text", linked[0].Body)
	assert.Equal(t, "bob@x.com", linked[0].Metadata["from"])
	assert.Equal(t, "th-1", linked[0].Metadata["thread"])

	assert.ErrorIs(t, records.SetBody(ctx, "alice", "missing", "x", nil), domain.ErrNotFound)
}

func TestContactStoreLinking(t *testing.T) {
	store := newTestStore(t)
	contacts := store.ContactStore().(*contactStore)
	ctx := context.Background()

	id, err := contacts.Save(ctx, domain.Contact{Owner: "alice", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, contacts.LinkToTopic(ctx, "alice", id, "t1"))
	require.NoError(t, contacts.LinkToTopic(ctx, "alice", id, "t1"))
	require.NoError(t, contacts.LinkToTopic(ctx, "alice", id, "t2"))

	linked, err := contacts.LinkedTopics(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, linked)

	assert.ErrorIs(t, contacts.LinkToTopic(ctx, "alice", "missing", "t1"), domain.ErrNotFound)
	assert.ErrorIs(t, contacts.LinkToTopic(ctx, "bob", id, "t1"), domain.ErrNotFound)
}
