package services

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockCompletionService implements driven.CompletionService with a
// scripted sequence of responses.
type mockCompletionService struct {
	responses []string
	tokens    []int
	err       error
	calls     []driven.CompletionInput
}

func (m *mockCompletionService) Complete(_ context.Context, input driven.CompletionInput) (*driven.CompletionOutput, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	tokens := 0
	if idx < len(m.tokens) {
		tokens = m.tokens[idx]
	}
	return &driven.CompletionOutput{
		Text:       m.responses[idx],
		Raw:        m.responses[idx],
		TokensUsed: tokens,
	}, nil
}

func (m *mockCompletionService) ModelName() string { return "mock-model" }

func (m *mockCompletionService) Ping(_ context.Context) error { return nil }

func (m *mockCompletionService) Close() error { return nil }

// mockConnector implements driven.SourceConnector for testing.
type mockConnector struct {
	source     domain.SourceType
	accountRef string
	records    []domain.Record
	content    map[string]*domain.Content // keyed by external ID
	searchErr  error
	fetchErr   error
	fetchCalls int
}

func (m *mockConnector) Source() domain.SourceType { return m.source }

func (m *mockConnector) AccountRef() string {
	if m.accountRef == "" {
		return "test-account"
	}
	return m.accountRef
}

func (m *mockConnector) Search(_ context.Context, _ string, _ domain.SearchQuery) ([]domain.Record, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.records, nil
}

func (m *mockConnector) FetchContent(_ context.Context, _ string, record domain.Record) (*domain.Content, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if content, ok := m.content[record.ExternalID]; ok {
		return content, nil
	}
	return &domain.Content{Body: "fetched body"}, nil
}

func (m *mockConnector) Close() error { return nil }
