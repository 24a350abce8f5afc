package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/logger"
)

const (
	// relevanceFloor filters candidates the model judged marginal.
	relevanceFloor = 0.3

	candidateSnippetLen = 300
)

// Ranker orders search candidates by AI-judged relevance to a topic.
type Ranker struct {
	completer *SchemaCompleter
	schema    driven.Schema
}

// NewRanker creates a ranker, compiling its output schema.
func NewRanker(completer *SchemaCompleter, compiler driven.SchemaCompiler) (*Ranker, error) {
	schema, err := compiler.Compile(rankSchemaDef)
	if err != nil {
		return nil, fmt.Errorf("compile rank schema: %w", err)
	}
	return &Ranker{completer: completer, schema: schema}, nil
}

type rankEntry struct {
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Rank scores candidates against the topic and returns them best
// first, dropping anything below the relevance floor. When the AI call
// fails, the candidates come back unranked rather than lost.
func (r *Ranker) Rank(ctx context.Context, topic domain.TopicContext, candidates []domain.Record) []domain.RankedRecord {
	if len(candidates) == 0 {
		return nil
	}

	result, err := r.completer.Complete(ctx, CompletionRequest{
		System: rankSystemPrompt,
		User:   buildRankPrompt(topic, candidates),
		Schema: r.schema,
	})
	if err != nil {
		logger.Warn("relevance ranking failed, returning unranked results: %v", err)
		return unranked(candidates)
	}

	var entries []rankEntry
	if err := result.Decode(&entries); err != nil {
		logger.Warn("decode ranking response: %v", err)
		return unranked(candidates)
	}

	var ranked []domain.RankedRecord
	for _, entry := range entries {
		if entry.Index < 0 || entry.Index >= len(candidates) {
			logger.Debug("ranking referenced out-of-range index %d", entry.Index)
			continue
		}
		if entry.Score < relevanceFloor {
			continue
		}
		score := entry.Score
		ranked = append(ranked, domain.RankedRecord{
			Record: candidates[entry.Index],
			Score:  &score,
			Reason: entry.Reason,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Score > *ranked[j].Score
	})
	return ranked
}

func buildRankPrompt(topic domain.TopicContext, candidates []domain.Record) string {
	var sb strings.Builder
	sb.WriteString("PROJECT\n")
	fmt.Fprintf(&sb, "Title: %s\n", topic.Title)
	if topic.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", topic.Description)
	}
	if topic.Goal != "" {
		fmt.Fprintf(&sb, "Goal: %s\n", topic.Goal)
	}
	if len(topic.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(topic.Tags, ", "))
	}

	sb.WriteString("\nCANDIDATES\n")
	for i, candidate := range candidates {
		preview := candidate.Snippet
		if preview == "" {
			preview = candidate.Body
		}
		if len(preview) > candidateSnippetLen {
			preview = preview[:candidateSnippetLen]
		}
		fmt.Fprintf(&sb, "[%d] (%s) %s: %s\n", i, candidate.Source, candidate.Title, preview)
	}
	return sb.String()
}

// unranked preserves candidate order with no scores attached.
func unranked(candidates []domain.Record) []domain.RankedRecord {
	out := make([]domain.RankedRecord, len(candidates))
	for i, candidate := range candidates {
		out[i] = domain.RankedRecord{Record: candidate}
	}
	return out
}
