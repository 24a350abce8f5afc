package mcp

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	records   []domain.Record
	err       error
	lastQuery domain.SearchQuery
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	query domain.SearchQuery,
) ([]domain.Record, error) {
	m.lastQuery = query
	return m.records, m.err
}

// mockContextService is a mock implementation of driving.ContextService.
type mockContextService struct {
	doc string
	err error
}

func (m *mockContextService) Compose(_ context.Context, _, _ string) (string, error) {
	return m.doc, m.err
}

// mockFindService is a mock implementation of driving.FindService.
type mockFindService struct {
	ranked []domain.RankedRecord
	err    error
}

func (m *mockFindService) Find(_ context.Context, _, _, _ string) ([]domain.RankedRecord, error) {
	return m.ranked, m.err
}
