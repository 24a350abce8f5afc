package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
)

type mockSearchService struct {
	records []domain.Record
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ domain.SearchQuery) ([]domain.Record, error) {
	return m.records, m.err
}

type mockFindService struct {
	ranked []domain.RankedRecord
	err    error
}

func (m *mockFindService) Find(_ context.Context, _, _, _ string) ([]domain.RankedRecord, error) {
	return m.ranked, m.err
}

type mockEnrichService struct {
	result *driving.EnrichResult
	err    error
}

func (m *mockEnrichService) EnrichOne(_ context.Context, _ string, record domain.Record) domain.EnrichmentOutcome {
	return domain.EnrichmentOutcome{RecordID: record.ID, Succeeded: true}
}

func (m *mockEnrichService) EnrichMany(_ context.Context, _, _ string) (*driving.EnrichResult, error) {
	return m.result, m.err
}

type mockPipelineRunner struct {
	events []domain.ProgressEvent
	err    error
}

func (m *mockPipelineRunner) Run(_ context.Context, _, _ string) (<-chan domain.ProgressEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.ProgressEvent, len(m.events))
	for _, e := range m.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

type mockContextSvc struct {
	doc string
	err error
}

func (m *mockContextSvc) Compose(_ context.Context, _, _ string) (string, error) {
	return m.doc, m.err
}

type mockStatsService struct {
	stats *domain.ContactStats
	err   error
}

func (m *mockStatsService) ComputeStats(_ context.Context, _ string, _ domain.Contact) (*domain.ContactStats, error) {
	return m.stats, m.err
}

type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		return domain.DefaultAppSettings(), m.err
	}
	return m.settings, m.err
}

func (m *mockSettingsService) SetCompletion(_ domain.CompletionSettings, _ bool) error {
	return m.err
}

func (m *mockSettingsService) SetPipeline(_ domain.PipelineSettings) error {
	return m.err
}

// setupTestServices installs mock services and returns a cleanup func
// restoring the previous ones.
func setupTestServices() func() {
	old := Services{
		Search:   searchService,
		Find:     findService,
		Enrich:   enrichService,
		Pipeline: pipelineRunner,
		Context:  contextService,
		Stats:    statsService,
		Settings: settingsService,
	}

	lastSeen := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	SetServices(Services{
		Search: &mockSearchService{
			records: []domain.Record{
				{ExternalID: "msg-1", Source: domain.SourceMail, Title: "Launch update", Snippet: "moved to Friday"},
			},
		},
		Find: &mockFindService{},
		Enrich: &mockEnrichService{
			result: &driving.EnrichResult{
				Enriched: 1,
				Outcomes: []domain.EnrichmentOutcome{{RecordID: "rec-1", Succeeded: true}},
			},
		},
		Pipeline: &mockPipelineRunner{
			events: []domain.ProgressEvent{
				{Kind: domain.ProgressStart, TotalTopics: 1},
				{Kind: domain.ProgressStage, Index: 1, TopicID: "t1", TopicTitle: "Atlas", Stage: domain.StageEnrich},
				{Kind: domain.ProgressTopicDone, Index: 1, TopicID: "t1", TopicTitle: "Atlas", Result: &domain.TopicRunResult{Enriched: 1}},
				{Kind: domain.ProgressComplete},
			},
		},
		Context: &mockContextSvc{doc: "GROUND TRUTH\nShip by Friday"},
		Stats: &mockStatsService{
			stats: &domain.ContactStats{Count: 3, LastInteractionAt: &lastSeen, TopicIDs: []string{"t1"}},
		},
		Settings: &mockSettingsService{},
	})

	return func() { SetServices(old) }
}
