package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
)

var _ driving.ContextService = (*Composer)(nil)

const (
	// perItemContentCap truncates a single record body in the context.
	perItemContentCap = 2000

	// totalContentCap bounds how much record body text the whole
	// context carries; past it, records degrade to snippets.
	totalContentCap = 24000

	snippetCap = 200
)

// Composer assembles the prompt-ready context document for a topic.
// The output is deterministic for unchanged inputs.
type Composer struct {
	topics  driven.TopicStore
	records driven.RecordStore
}

// NewComposer creates a context composition service.
func NewComposer(topics driven.TopicStore, records driven.RecordStore) *Composer {
	return &Composer{topics: topics, records: records}
}

// Compose builds the full context document: ground truth first, then
// prior analysis, user notes, active tasks, linked records, and
// ancestor context last.
func (c *Composer) Compose(ctx context.Context, owner, topicID string) (string, error) {
	topic, err := c.topics.Get(ctx, owner, topicID)
	if err != nil {
		return "", fmt.Errorf("get topic: %w", err)
	}

	var sb strings.Builder
	writeGroundTruth(&sb, topic)
	writePriorRun(&sb, topic)

	notes, err := c.topics.ListNotes(ctx, owner, topicID)
	if err != nil {
		return "", fmt.Errorf("list notes: %w", err)
	}
	writeNotes(&sb, notes)

	tasks, err := c.topics.ListTasks(ctx, owner, topicID)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	writeTasks(&sb, tasks)

	records, err := c.records.ListForTopic(ctx, owner, topicID)
	if err != nil {
		return "", fmt.Errorf("list records: %w", err)
	}
	writeRecords(&sb, records)

	if err := c.writeAncestors(ctx, &sb, owner, topicID); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func writeGroundTruth(sb *strings.Builder, topic *domain.Topic) {
	sb.WriteString("GROUND TRUTH (the user's own framing; interpret everything below through this lens)\n")
	fmt.Fprintf(sb, "Title: %s\n", topic.Title)
	if topic.Description != "" {
		fmt.Fprintf(sb, "Description: %s\n", topic.Description)
	}
	if topic.Goal != "" {
		fmt.Fprintf(sb, "Goal: %s\n", topic.Goal)
	}
	if len(topic.Tags) > 0 {
		fmt.Fprintf(sb, "Tags: %s\n", strings.Join(topic.Tags, ", "))
	}
	if topic.DueDate != nil {
		fmt.Fprintf(sb, "Due: %s\n", topic.DueDate.Format("2006-01-02"))
	}
}

func writePriorRun(sb *strings.Builder, topic *domain.Topic) {
	if topic.Summary == "" && len(topic.NextSteps) == 0 {
		return
	}
	sb.WriteString("\nPRIOR ANALYSIS\n")
	if topic.Summary != "" {
		fmt.Fprintf(sb, "%s\n", topic.Summary)
	}
	for _, step := range topic.NextSteps {
		fmt.Fprintf(sb, "- %s\n", step)
	}
}

func writeNotes(sb *strings.Builder, notes []domain.Note) {
	if len(notes) == 0 {
		return
	}
	sb.WriteString("\nUSER NOTES\n")
	for _, note := range notes {
		fmt.Fprintf(sb, "- %s\n", note.Text)
	}
}

func writeTasks(sb *strings.Builder, tasks []domain.Task) {
	var active []domain.Task
	for _, task := range tasks {
		if task.Status.Active() {
			active = append(active, task)
		}
	}
	if len(active) == 0 {
		return
	}
	sb.WriteString("\nACTIVE TASKS\n")
	for _, task := range active {
		fmt.Fprintf(sb, "- [%s] %s", task.Status, task.Title)
		if task.Priority > 0 {
			fmt.Fprintf(sb, " (P%d)", task.Priority)
		}
		if task.Assignee != "" {
			fmt.Fprintf(sb, " @%s", task.Assignee)
		}
		sb.WriteString("\n")
	}
}

// writeRecords writes linked records, spending the total content
// budget on full bodies first and degrading to snippets after. No
// record is ever dropped outright.
func writeRecords(sb *strings.Builder, records []domain.Record) {
	if len(records) == 0 {
		return
	}
	sb.WriteString("\nLINKED RECORDS\n")
	used := 0
	for _, record := range records {
		date := ""
		if !record.OccurredAt.IsZero() {
			date = record.OccurredAt.Format("2006-01-02")
		}
		fmt.Fprintf(sb, "--- (%s) %s [%s]\n", record.Source, record.Title, date)

		body := record.Body
		if len(body) > perItemContentCap {
			body = body[:perItemContentCap]
		}
		if body != "" && used+len(body) <= totalContentCap {
			fmt.Fprintf(sb, "%s\n", body)
			used += len(body)
			continue
		}

		snippet := record.Snippet
		if snippet == "" {
			snippet = record.Body
		}
		if len(snippet) > snippetCap {
			snippet = snippet[:snippetCap]
		}
		if snippet != "" {
			fmt.Fprintf(sb, "(snippet) %s\n", snippet)
		}
	}
}

func (c *Composer) writeAncestors(ctx context.Context, sb *strings.Builder, owner, topicID string) error {
	ancestors, err := c.topics.Ancestors(ctx, owner, topicID)
	if err != nil {
		return fmt.Errorf("list ancestors: %w", err)
	}
	if len(ancestors) == 0 {
		return nil
	}

	sb.WriteString("\nPARENT CONTEXT (supplementary, lower priority)\n")
	for _, ancestor := range ancestors {
		fmt.Fprintf(sb, "Topic: %s\n", ancestor.Title)
		if ancestor.Description != "" {
			fmt.Fprintf(sb, "Description: %s\n", ancestor.Description)
		}
		if ancestor.Goal != "" {
			fmt.Fprintf(sb, "Goal: %s\n", ancestor.Goal)
		}
	}

	for _, ancestor := range ancestors {
		records, err := c.records.ListForTopic(ctx, owner, ancestor.ID)
		if err != nil {
			return fmt.Errorf("list ancestor records: %w", err)
		}
		if len(records) == 0 {
			continue
		}
		fmt.Fprintf(sb, "\nRECORDS UNDER %q (snippets only)\n", ancestor.Title)
		for _, record := range records {
			snippet := record.Snippet
			if snippet == "" {
				snippet = record.Body
			}
			if len(snippet) > snippetCap {
				snippet = snippet[:snippetCap]
			}
			fmt.Fprintf(sb, "- (%s) %s: %s\n", record.Source, record.Title, snippet)
		}
	}
	return nil
}
