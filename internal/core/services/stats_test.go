package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestComputeStatsCountsAndRecency(t *testing.T) {
	records := memory.NewRecordStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m1", Source: domain.SourceMail, TopicID: "t1",
		Metadata:   map[string]any{"from": "Ada Lovelace <ada@example.com>"},
		OccurredAt: base,
	}))
	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m2", Source: domain.SourceMail, TopicID: "t2",
		Body:       "as ada@example.com mentioned yesterday",
		OccurredAt: base.Add(48 * time.Hour),
	}))
	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m3", Source: domain.SourceMail, TopicID: "t1",
		Snippet:    "lunch with the team",
		OccurredAt: base.Add(24 * time.Hour),
	}))

	engine := NewStatsEngine(records)
	stats, err := engine.ComputeStats(ctx, "alice", domain.Contact{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.LastInteractionAt)
	assert.Equal(t, base.Add(48*time.Hour), *stats.LastInteractionAt)
	assert.ElementsMatch(t, []string{"t1", "t2"}, stats.TopicIDs)
}

func TestComputeStatsEmailIsSubstringMatch(t *testing.T) {
	records := memory.NewRecordStore()
	ctx := context.Background()

	// "A <a@x.com>" must match the contact a@x.com; plain "ax.com"
	// must not.
	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m1", Source: domain.SourceMail,
		Metadata: map[string]any{"from": "A <a@x.com>"},
	}))
	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m2", Source: domain.SourceMail,
		Body: "visit ax.com for details",
	}))

	engine := NewStatsEngine(records)
	stats, err := engine.ComputeStats(ctx, "alice", domain.Contact{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
}

func TestComputeStatsShortNameIgnored(t *testing.T) {
	records := memory.NewRecordStore()
	ctx := context.Background()

	require.NoError(t, records.Upsert(ctx, "alice", domain.Record{
		ExternalID: "m1", Source: domain.SourceMail,
		Body: "la la la",
	}))

	engine := NewStatsEngine(records)
	stats, err := engine.ComputeStats(ctx, "alice", domain.Contact{Name: "La"})
	require.NoError(t, err)
	assert.Zero(t, stats.Count, "two-letter names must not match")
}

func TestComputeStatsNoMentions(t *testing.T) {
	engine := NewStatsEngine(memory.NewRecordStore())
	stats, err := engine.ComputeStats(context.Background(), "alice", domain.Contact{
		Name: "Nobody", Email: "nobody@example.com",
	})
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Nil(t, stats.LastInteractionAt)
	assert.Empty(t, stats.TopicIDs)
}
