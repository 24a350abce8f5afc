package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestRecordStoreUpsertDedupByKey(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	err := store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "first",
	})
	require.NoError(t, err)

	// Same (source, external ID) updates rather than duplicates.
	err = store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1",
		Source:     domain.SourceMail,
		TopicID:    "t1",
		Title:      "updated",
	})
	require.NoError(t, err)

	records, err := store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "updated", records[0].Title)
}

func TestRecordStoreUpsertKeepsEnrichedBody(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	record := domain.Record{
		ExternalID: "msg-1", Source: domain.SourceMail, TopicID: "t1", Title: "mail",
	}
	require.NoError(t, store.Upsert(ctx, "alice", record))
	records, err := store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, store.SetBody(ctx, "alice", records[0].ID, "enriched content", nil))

	// A fresh search result for the same key carries no body.
	require.NoError(t, store.Upsert(ctx, "alice", record))

	records, err = store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "enriched content", records[0].Body)

	// An update that does carry a body replaces it.
	record.Body = "newer content"
	require.NoError(t, store.Upsert(ctx, "alice", record))
	records, err = store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "newer content", records[0].Body)
}

func TestRecordStoreOwnerIsolation(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1", Source: domain.SourceMail, TopicID: "t1",
	}))

	records, err := store.ListRecent(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordStoreListRecentOrderAndLimit(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Upsert(ctx, "alice", domain.Record{
			ExternalID: id,
			Source:     domain.SourceMail,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := store.ListRecent(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ExternalID)
	assert.Equal(t, "b", records[1].ExternalID)
}

func TestRecordStoreLinkedKeys(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1", Source: domain.SourceMail, TopicID: "t1",
	}))
	require.NoError(t, store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-2", Source: domain.SourceMail, TopicID: "t2",
	}))

	keys, err := store.LinkedKeys(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mail:msg-1": true}, keys)
}

func TestRecordStoreSetBody(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", domain.Record{
		ExternalID: "msg-1", Source: domain.SourceMail, TopicID: "t1",
		Metadata: map[string]any{"from": "bob@x.com"},
	}))
	records, err := store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	err = store.SetBody(ctx, "alice", records[0].ID, "full body", map[string]any{"thread": "th-1"})
	require.NoError(t, err)

	records, err = store.ListForTopic(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "full body", records[0].Body)
	assert.Equal(t, "bob@x.com", records[0].Metadata["from"])
	assert.Equal(t, "th-1", records[0].Metadata["thread"])

	assert.ErrorIs(t, store.SetBody(ctx, "alice", "missing", "x", nil), domain.ErrNotFound)
}
