package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()

	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestNewServerValidatesPorts(t *testing.T) {
	_, err := NewServer(&Ports{Context: &mockContextService{}})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewServer(&Ports{Search: &mockSearchService{}})
	assert.ErrorIs(t, err, ErrMissingContextService)
}

func TestHandleTopicSearch(t *testing.T) {
	search := &mockSearchService{
		records: []domain.Record{
			{
				ExternalID: "msg-1",
				Source:     domain.SourceMail,
				Title:      "Launch update",
				Snippet:    "moved to Friday",
				URL:        "https://mail.example.com/msg-1",
				OccurredAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
			},
		},
	}
	server := newTestServer(t, &Ports{Search: search, Context: &mockContextService{}})

	_, output, err := server.handleTopicSearch(context.Background(), nil, TopicSearchInput{
		Query:   "launch",
		TopicID: "topic-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	require.Len(t, output.Results, 1)
	assert.Equal(t, "msg-1", output.Results[0].ExternalID)
	assert.Equal(t, "mail", output.Results[0].Source)
	assert.Equal(t, "Launch update", output.Results[0].Title)
	assert.Equal(t, "2025-05-01T09:00:00Z", output.Results[0].OccurredAt)
	assert.Nil(t, output.Results[0].Score)

	assert.Equal(t, "topic-1", search.lastQuery.TopicID)
}

func TestHandleTopicSearchError(t *testing.T) {
	search := &mockSearchService{err: errors.New("boom")}
	server := newTestServer(t, &Ports{Search: search, Context: &mockContextService{}})

	_, _, err := server.handleTopicSearch(context.Background(), nil, TopicSearchInput{Query: "x"})

	assert.Error(t, err)
}

func TestHandleTopicContext(t *testing.T) {
	server := newTestServer(t, &Ports{
		Search:  &mockSearchService{},
		Context: &mockContextService{doc: "GROUND TRUTH\nShip by Friday"},
	})

	_, output, err := server.handleTopicContext(context.Background(), nil, TopicContextInput{TopicID: "topic-1"})

	require.NoError(t, err)
	assert.Equal(t, "GROUND TRUTH\nShip by Friday", output.Context)
}

func TestHandleTopicContextUnknownTopic(t *testing.T) {
	server := newTestServer(t, &Ports{
		Search:  &mockSearchService{},
		Context: &mockContextService{err: domain.ErrNotFound},
	})

	_, _, err := server.handleTopicContext(context.Background(), nil, TopicContextInput{TopicID: "nope"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleTopicFind(t *testing.T) {
	score := 0.8
	find := &mockFindService{
		ranked: []domain.RankedRecord{
			{
				Record: domain.Record{ExternalID: "msg-2", Source: domain.SourceChat},
				Score:  &score,
				Reason: "directly about the launch",
			},
		},
	}
	server := newTestServer(t, &Ports{Search: &mockSearchService{}, Context: &mockContextService{}, Find: find})

	_, output, err := server.handleTopicFind(context.Background(), nil, TopicFindInput{TopicID: "topic-1", Query: "launch"})

	require.NoError(t, err)
	require.Len(t, output.Results, 1)
	require.NotNil(t, output.Results[0].Score)
	assert.Equal(t, 0.8, *output.Results[0].Score)
	assert.Equal(t, "directly about the launch", output.Results[0].Reason)
}
