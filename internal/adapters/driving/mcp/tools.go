package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// TopicSearchInput is the input schema for the topic_search tool.
type TopicSearchInput struct {
	Query   string `json:"query" jsonschema:"the search text to find records across connected sources"`
	TopicID string `json:"topic_id,omitempty" jsonschema:"exclude records already linked to this topic"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results per source (default 20)"`
}

// TopicSearchOutput is the output schema for the topic_search tool.
type TopicSearchOutput struct {
	Results []RecordOutput `json:"results"`
	Count   int            `json:"count"`
}

// RecordOutput represents a single record in tool output.
type RecordOutput struct {
	ExternalID string   `json:"external_id"`
	Source     string   `json:"source"`
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet,omitempty"`
	URL        string   `json:"url,omitempty"`
	OccurredAt string   `json:"occurred_at,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// TopicContextInput is the input schema for the topic_context tool.
type TopicContextInput struct {
	TopicID string `json:"topic_id" jsonschema:"the topic whose composed context to return"`
}

// TopicContextOutput is the output schema for the topic_context tool.
type TopicContextOutput struct {
	Context string `json:"context"`
}

// TopicFindInput is the input schema for the topic_find tool.
type TopicFindInput struct {
	TopicID string `json:"topic_id" jsonschema:"the topic to find relevant content for"`
	Query   string `json:"query" jsonschema:"the search text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "topic_search",
		Description: "Search across the user's connected sources (mail, calendar, files, chat, notes, code)",
	}, s.handleTopicSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "topic_context",
		Description: "Return the composed context document for a topic",
	}, s.handleTopicContext)

	if s.ports.Find != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "topic_find",
			Description: "Find content relevant to a topic, ranked by AI-judged relevance",
		}, s.handleTopicFind)
	}
}

// handleTopicSearch handles the topic_search tool invocation.
func (s *Server) handleTopicSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TopicSearchInput,
) (*mcp.CallToolResult, TopicSearchOutput, error) {
	query := domain.SearchQuery{
		Query:      input.Query,
		TopicID:    input.TopicID,
		MaxResults: input.Limit,
	}

	records, err := s.ports.Search.Search(ctx, defaultOwner, query)
	if err != nil {
		return nil, TopicSearchOutput{}, err
	}

	output := TopicSearchOutput{
		Results: make([]RecordOutput, len(records)),
		Count:   len(records),
	}
	for i := range records {
		output.Results[i] = recordOutput(records[i], nil, "")
	}

	return nil, output, nil
}

// handleTopicContext handles the topic_context tool invocation.
func (s *Server) handleTopicContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TopicContextInput,
) (*mcp.CallToolResult, TopicContextOutput, error) {
	doc, err := s.ports.Context.Compose(ctx, defaultOwner, input.TopicID)
	if err != nil {
		return nil, TopicContextOutput{}, err
	}

	return nil, TopicContextOutput{Context: doc}, nil
}

// handleTopicFind handles the topic_find tool invocation.
func (s *Server) handleTopicFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TopicFindInput,
) (*mcp.CallToolResult, TopicSearchOutput, error) {
	ranked, err := s.ports.Find.Find(ctx, defaultOwner, input.TopicID, input.Query)
	if err != nil {
		return nil, TopicSearchOutput{}, err
	}

	output := TopicSearchOutput{
		Results: make([]RecordOutput, len(ranked)),
		Count:   len(ranked),
	}
	for i := range ranked {
		output.Results[i] = recordOutput(ranked[i].Record, ranked[i].Score, ranked[i].Reason)
	}

	return nil, output, nil
}

func recordOutput(rec domain.Record, score *float64, reason string) RecordOutput {
	out := RecordOutput{
		ExternalID: rec.ExternalID,
		Source:     rec.Source.String(),
		Title:      rec.Title,
		Snippet:    rec.Snippet,
		URL:        rec.URL,
		Score:      score,
		Reason:     reason,
	}
	if !rec.OccurredAt.IsZero() {
		out.OccurredAt = rec.OccurredAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}
