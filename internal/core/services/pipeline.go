package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
	"github.com/custodia-labs/topicos/internal/logger"
)

var _ driving.PipelineRunner = (*Pipeline)(nil)

const (
	contactRecordSnippetLen = 250

	// minNameLength guards name matching against initials and other
	// short strings that would link the wrong person.
	minNameLength = 3
)

// Pipeline runs the batch organize flow over active topics: enrich
// linked records, extract and link contacts, then deep dive.
type Pipeline struct {
	topics         driven.TopicStore
	records        driven.RecordStore
	contacts       driven.ContactStore
	enricher       driving.EnrichmentService
	composer       driving.ContextService
	completer      *SchemaCompleter
	contactsSchema driven.Schema
	deepDiveSchema driven.Schema
	settings       domain.PipelineSettings
}

// NewPipeline creates a batch pipeline, compiling its output schemas.
func NewPipeline(
	topics driven.TopicStore,
	records driven.RecordStore,
	contacts driven.ContactStore,
	enricher driving.EnrichmentService,
	composer driving.ContextService,
	completer *SchemaCompleter,
	compiler driven.SchemaCompiler,
	settings domain.PipelineSettings,
) (*Pipeline, error) {
	contactsSchema, err := compiler.Compile(contactsSchemaDef)
	if err != nil {
		return nil, fmt.Errorf("compile contacts schema: %w", err)
	}
	deepDiveSchema, err := compiler.Compile(deepDiveSchemaDef)
	if err != nil {
		return nil, fmt.Errorf("compile deep dive schema: %w", err)
	}
	if settings.MaxContactRecords <= 0 {
		settings.MaxContactRecords = domain.DefaultAppSettings().Pipeline.MaxContactRecords
	}
	return &Pipeline{
		topics:         topics,
		records:        records,
		contacts:       contacts,
		enricher:       enricher,
		composer:       composer,
		completer:      completer,
		contactsSchema: contactsSchema,
		deepDiveSchema: deepDiveSchema,
		settings:       settings,
	}, nil
}

// Run starts the batch over all active topics in the area and returns
// a channel of progress events. A topic failure is reported as an
// event and the run moves on; the channel closes when the run ends.
func (p *Pipeline) Run(ctx context.Context, owner, area string) (<-chan domain.ProgressEvent, error) {
	topics, err := p.topics.ListActive(ctx, owner, area)
	if err != nil {
		return nil, fmt.Errorf("list active topics: %w", err)
	}

	events := make(chan domain.ProgressEvent)
	go p.run(ctx, owner, topics, events)
	return events, nil
}

func (p *Pipeline) run(ctx context.Context, owner string, topics []domain.Topic, events chan<- domain.ProgressEvent) {
	defer close(events)
	logger.Section("Batch Pipeline")

	emit := func(ev domain.ProgressEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	emit(domain.ProgressEvent{Kind: domain.ProgressStart, TotalTopics: len(topics)})

	for i, topic := range topics {
		if i > 0 && p.settings.InterTopicDelay > 0 {
			select {
			case <-time.After(p.settings.InterTopicDelay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}

		result, err := p.runTopic(ctx, owner, topic, i, len(topics), emit)
		if err != nil {
			logger.Warn("topic %s failed: %v", topic.ID, err)
			emit(domain.ProgressEvent{
				Kind:       domain.ProgressTopicError,
				TopicID:    topic.ID,
				TopicTitle: topic.Title,
				Index:      i + 1,
				Message:    err.Error(),
			})
			continue
		}
		emit(domain.ProgressEvent{
			Kind:       domain.ProgressTopicDone,
			TopicID:    topic.ID,
			TopicTitle: topic.Title,
			Index:      i + 1,
			Result:     result,
		})
	}

	emit(domain.ProgressEvent{Kind: domain.ProgressComplete, TotalTopics: len(topics)})
}

func (p *Pipeline) runTopic(
	ctx context.Context,
	owner string,
	topic domain.Topic,
	index, total int,
	emit func(domain.ProgressEvent),
) (*domain.TopicRunResult, error) {
	result := &domain.TopicRunResult{}
	stage := func(s domain.PipelineStage) {
		emit(domain.ProgressEvent{
			Kind:        domain.ProgressStage,
			TopicID:     topic.ID,
			TopicTitle:  topic.Title,
			Index:       index + 1,
			TotalTopics: total,
			Stage:       s,
		})
	}

	stage(domain.StageEnrich)
	enrichResult, err := p.enricher.EnrichMany(ctx, owner, topic.ID)
	if err != nil {
		logger.Warn("enrich topic %s: %v", topic.ID, err)
	} else {
		result.Enriched = enrichResult.Enriched
		result.EnrichFailed = enrichResult.Failed
	}

	stage(domain.StageContacts)
	linked, tokens, err := p.extractContacts(ctx, owner, topic.ID)
	if err != nil {
		return nil, fmt.Errorf("extract contacts: %w", err)
	}
	result.ContactsLinked = linked
	result.TokensUsed += tokens

	stage(domain.StageDeepDive)
	tokens, err = p.deepDive(ctx, owner, topic.ID)
	if err != nil {
		return nil, fmt.Errorf("deep dive: %w", err)
	}
	result.TokensUsed += tokens
	result.SummaryWritten = true

	return result, nil
}

// extractContacts asks the model who appears in the topic's records
// and links matching known contacts. An AI failure degrades to zero
// links rather than failing the topic.
func (p *Pipeline) extractContacts(ctx context.Context, owner, topicID string) (linked, tokens int, err error) {
	records, err := p.records.ListForTopic(ctx, owner, topicID)
	if err != nil {
		return 0, 0, err
	}
	if len(records) == 0 {
		return 0, 0, nil
	}
	if len(records) > p.settings.MaxContactRecords {
		records = records[:p.settings.MaxContactRecords]
	}

	result, err := p.completer.Complete(ctx, CompletionRequest{
		System: contactsSystemPrompt,
		User:   buildContactsPrompt(records),
		Schema: p.contactsSchema,
	})
	if err != nil {
		logger.Warn("contact extraction for topic %s failed: %v", topicID, err)
		return 0, 0, nil
	}

	var people []domain.ExtractedPerson
	if err := result.Decode(&people); err != nil {
		logger.Warn("decode extracted people: %v", err)
		return 0, result.TokensUsed, nil
	}

	known, err := p.contacts.List(ctx, owner)
	if err != nil {
		return 0, result.TokensUsed, err
	}

	for _, person := range people {
		contact, ok := matchContact(known, person)
		if !ok {
			continue
		}
		if err := p.contacts.LinkToTopic(ctx, owner, contact.ID, topicID); err != nil {
			return linked, result.TokensUsed, err
		}
		linked++
	}
	return linked, result.TokensUsed, nil
}

// matchContact finds a known contact for an extracted person. Email
// match wins over name match; short names never match.
func matchContact(known []domain.Contact, person domain.ExtractedPerson) (domain.Contact, bool) {
	if person.Email != "" {
		for _, contact := range known {
			if contact.Email != "" && strings.EqualFold(contact.Email, person.Email) {
				return contact, true
			}
		}
	}
	if len(person.Name) >= minNameLength {
		for _, contact := range known {
			if len(contact.Name) >= minNameLength && strings.EqualFold(contact.Name, person.Name) {
				return contact, true
			}
		}
	}
	return domain.Contact{}, false
}

func (p *Pipeline) deepDive(ctx context.Context, owner, topicID string) (int, error) {
	material, err := p.composer.Compose(ctx, owner, topicID)
	if err != nil {
		return 0, err
	}

	result, err := p.completer.Complete(ctx, CompletionRequest{
		System: deepDiveSystemPrompt,
		User:   material,
		Schema: p.deepDiveSchema,
	})
	if err != nil {
		return 0, err
	}

	var analysis struct {
		Summary   string   `json:"summary"`
		NextSteps []string `json:"next_steps"`
		Urgency   float64  `json:"urgency"`
	}
	if err := result.Decode(&analysis); err != nil {
		return result.TokensUsed, err
	}

	if err := p.topics.UpdateSummary(ctx, owner, topicID, analysis.Summary, analysis.NextSteps); err != nil {
		return result.TokensUsed, err
	}
	return result.TokensUsed, nil
}

func buildContactsPrompt(records []domain.Record) string {
	var sb strings.Builder
	sb.WriteString("RECORDS\n")
	for i, record := range records {
		fmt.Fprintf(&sb, "[%d] (%s) %s\n", i, record.Source, record.Title)
		for _, key := range []string{"from", "to", "cc", "attendees", "author", "username"} {
			if v, ok := record.Metadata[key]; ok {
				fmt.Fprintf(&sb, "%s: %v\n", key, v)
			}
		}
		preview := record.Snippet
		if preview == "" {
			preview = record.Body
		}
		if len(preview) > contactRecordSnippetLen {
			preview = preview[:contactRecordSnippetLen]
		}
		if preview != "" {
			fmt.Fprintf(&sb, "%s\n", preview)
		}
	}
	return sb.String()
}
