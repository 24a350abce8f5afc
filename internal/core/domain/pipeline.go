package domain

// PipelineStage identifies one stage of the batch enrichment pipeline.
type PipelineStage string

// Pipeline stages, in execution order.
const (
	// StageEnrich fetches full content for the topic's records.
	StageEnrich PipelineStage = "enrich"

	// StageContacts extracts people from records and links known contacts.
	StageContacts PipelineStage = "extract_contacts"

	// StageDeepDive produces the long-form structured topic summary.
	StageDeepDive PipelineStage = "deep_dive"
)

// ProgressKind tags a ProgressEvent.
type ProgressKind string

// Available progress event kinds.
const (
	// ProgressStart opens the stream with the total topic count.
	ProgressStart ProgressKind = "start"

	// ProgressStage reports a topic reaching a pipeline stage.
	ProgressStage ProgressKind = "stage"

	// ProgressTopicDone reports a topic finishing all stages.
	ProgressTopicDone ProgressKind = "topic_done"

	// ProgressTopicError reports a topic failing. The run continues
	// with the next topic.
	ProgressTopicError ProgressKind = "topic_error"

	// ProgressComplete terminates the stream.
	ProgressComplete ProgressKind = "complete"
)

// TopicRunResult carries per-stage counters for one completed topic.
type TopicRunResult struct {
	// Enriched is the number of records whose content was fetched.
	Enriched int `json:"enriched"`

	// EnrichFailed is the number of records whose fetch failed.
	EnrichFailed int `json:"enrich_failed"`

	// ContactsLinked is the number of contacts linked to the topic.
	ContactsLinked int `json:"contacts_linked"`

	// SummaryWritten is true when the deep dive produced a summary.
	SummaryWritten bool `json:"summary_written"`

	// TokensUsed is the total completion tokens consumed for the topic.
	TokensUsed int `json:"tokens_used"`
}

// ProgressEvent is one element of the ordered event stream emitted by
// a pipeline run. Consumers must treat a topic_error event as non-fatal
// to the overall run; only complete ends the stream.
type ProgressEvent struct {
	// Kind tags the event.
	Kind ProgressKind `json:"kind"`

	// TotalTopics is set on start events.
	TotalTopics int `json:"total_topics,omitempty"`

	// TopicID and TopicTitle identify the topic for stage, topic_done
	// and topic_error events.
	TopicID    string `json:"topic_id,omitempty"`
	TopicTitle string `json:"topic_title,omitempty"`

	// Index is the 1-based position of the topic in the run.
	Index int `json:"index,omitempty"`

	// Stage is set on stage events.
	Stage PipelineStage `json:"stage,omitempty"`

	// Result is set on topic_done events.
	Result *TopicRunResult `json:"result,omitempty"`

	// Message holds the failure description on topic_error events.
	Message string `json:"message,omitempty"`
}
