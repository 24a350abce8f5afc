package domain

import "time"

// Topic represents a user-defined unit of work aggregating records,
// tasks, and AI-derived summaries.
type Topic struct {
	// ID is the unique identifier.
	ID string

	// Owner identifies the user the topic belongs to.
	Owner string

	// ParentID links to a parent topic, empty for root topics.
	// The hierarchy is shallow: at most parent and grandparent.
	ParentID string

	// Area groups topics for fleet-wide actions (e.g. "work", "personal").
	Area string

	// Title is the user-authored title.
	Title string

	// Description is the user-authored description.
	Description string

	// Goal is the user-authored desired outcome.
	Goal string

	// Tags are free-form labels.
	Tags []string

	// DueDate is the optional deadline.
	DueDate *time.Time

	// Summary is the last AI-produced deep-dive summary.
	Summary string

	// NextSteps are the AI-suggested next steps from the last deep dive.
	NextSteps []string

	// Archived topics are excluded from active listings and batch runs.
	Archived bool

	// CreatedAt is when the topic was created.
	CreatedAt time.Time

	// UpdatedAt is when the topic was last modified.
	UpdatedAt time.Time
}

// TaskStatus describes the state of a task.
type TaskStatus string

// Available task statuses.
const (
	TaskStatusOpen    TaskStatus = "open"
	TaskStatusInWork  TaskStatus = "in_progress"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusDropped TaskStatus = "dropped"
)

// Active returns true if the task should appear in prompt context.
func (s TaskStatus) Active() bool {
	return s == TaskStatusOpen || s == TaskStatusInWork
}

// Task is a unit of work attached to a topic.
type Task struct {
	// ID is the unique identifier.
	ID string

	// TopicID links to the owning topic.
	TopicID string

	// Title is the task description.
	Title string

	// Status is the current state.
	Status TaskStatus

	// Priority is 1 (highest) to 4 (lowest), 0 when unset.
	Priority int

	// Assignee is the person responsible, empty when unassigned.
	Assignee string

	// DueDate is the optional deadline.
	DueDate *time.Time
}

// Note is a user-authored free-text note attached to a topic.
type Note struct {
	// ID is the unique identifier.
	ID string

	// TopicID links to the owning topic.
	TopicID string

	// Text is the note content.
	Text string

	// CreatedAt is when the note was written.
	CreatedAt time.Time
}

// AncestorTopic is the reduced view of a parent or grandparent topic
// used as supplementary prompt context.
type AncestorTopic struct {
	// ID is the ancestor topic's identifier.
	ID string

	// Title, Description and Goal are the ancestor's user-authored fields.
	Title       string
	Description string
	Goal        string
}

// TopicContext is the material assembled for prompting about one topic.
// It is built fresh per request and never cached beyond it.
type TopicContext struct {
	// Title, Description and Goal form the ground-truth anchor: the
	// primary lens through which all other material is interpreted.
	Title       string
	Description string
	Goal        string

	// Tags are the topic's labels.
	Tags []string

	// DueDate is the topic deadline, nil when unset.
	DueDate *time.Time

	// PriorSummary is the previous AI deep-dive summary, if any.
	PriorSummary string

	// PriorNextSteps are the previous AI-suggested next steps.
	PriorNextSteps []string

	// Notes are user-authored free-text notes.
	Notes []Note

	// Tasks are the topic's active (non-archived, non-done) tasks.
	Tasks []Task

	// Ancestors holds up to two ancestor topics, nearest first.
	Ancestors []AncestorTopic
}
