package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
	"github.com/custodia-labs/topicos/internal/logger"
)

var (
	_ driving.SearchService = (*Searcher)(nil)
	_ driving.FindService   = (*Searcher)(nil)
)

const defaultMaxResults = 20

// Searcher fans queries out across source connectors and merges the
// results. With a ranker it also serves topic-scoped relevance search.
type Searcher struct {
	connectors map[domain.SourceType]driven.SourceConnector
	records    driven.RecordStore
	topics     driven.TopicStore
	ranker     *Ranker
}

// NewSearcher creates a search service.
func NewSearcher(
	connectors map[domain.SourceType]driven.SourceConnector,
	records driven.RecordStore,
	topics driven.TopicStore,
	ranker *Ranker,
) *Searcher {
	return &Searcher{connectors: connectors, records: records, topics: topics, ranker: ranker}
}

// Search queries the requested sources concurrently and merges the
// results. A failing source is logged and skipped; it never fails the
// whole search.
func (s *Searcher) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	logger.Section("Cross-Source Search")
	if query.MaxResults <= 0 {
		query.MaxResults = defaultMaxResults
	}

	targets := s.targetConnectors(query.Sources)
	if len(targets) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	var all []domain.Record

	g, gctx := errgroup.WithContext(ctx)
	for _, connector := range targets {
		g.Go(func() error {
			records, err := connector.Search(gctx, owner, query)
			if err != nil {
				logger.Warn("search %s (%s) failed: %v", connector.Source(), connector.AccountRef(), err)
				return nil
			}
			mu.Lock()
			all = append(all, records...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deduped := dedupeRecords(all, nil)

	if query.TopicID != "" {
		linked, err := s.records.LinkedKeys(ctx, owner, query.TopicID)
		if err != nil {
			return nil, err
		}
		deduped = dedupeRecords(deduped, linked)
	}

	logger.Debug("search %q: %d results from %d sources", query.Query, len(deduped), len(targets))
	return deduped, nil
}

// Find searches all sources for content relevant to the topic and
// ranks the candidates by AI-judged relevance.
func (s *Searcher) Find(ctx context.Context, owner, topicID, query string) ([]domain.RankedRecord, error) {
	candidates, err := s.Search(ctx, owner, domain.SearchQuery{Query: query, TopicID: topicID})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	topic, err := s.topics.Get(ctx, owner, topicID)
	if err != nil {
		return nil, err
	}
	topicContext := domain.TopicContext{
		Title:       topic.Title,
		Description: topic.Description,
		Goal:        topic.Goal,
		Tags:        topic.Tags,
	}

	return s.ranker.Rank(ctx, topicContext, candidates), nil
}

func (s *Searcher) targetConnectors(sources []domain.SourceType) []driven.SourceConnector {
	if len(sources) == 0 {
		targets := make([]driven.SourceConnector, 0, len(s.connectors))
		for _, c := range s.connectors {
			targets = append(targets, c)
		}
		return targets
	}
	var targets []driven.SourceConnector
	for _, source := range sources {
		if c, ok := s.connectors[source]; ok {
			targets = append(targets, c)
		}
	}
	return targets
}

// dedupeRecords keeps the first record per source-scoped key and
// drops any whose key appears in exclude.
func dedupeRecords(records []domain.Record, exclude map[string]bool) []domain.Record {
	seen := make(map[string]bool, len(records))
	out := records[:0:0]
	for _, record := range records {
		key := record.Key()
		if seen[key] || exclude[key] {
			continue
		}
		seen[key] = true
		out = append(out, record)
	}
	return out
}
