package domain

import "time"

// SourceType identifies the system a record originated from.
type SourceType string

// Available source types.
const (
	// SourceMail is email (Gmail).
	SourceMail SourceType = "mail"

	// SourceCalendar is calendar events (Google Calendar).
	SourceCalendar SourceType = "calendar"

	// SourceFile is file storage (Google Drive).
	SourceFile SourceType = "file"

	// SourceChat is chat messages (Slack).
	SourceChat SourceType = "chat"

	// SourceNotes is workspace pages (Notion) or local markdown notes.
	SourceNotes SourceType = "notes"

	// SourceCode is code hosting activity (GitHub issues and pull requests).
	SourceCode SourceType = "code"

	// SourceManual is a note entered directly by the user.
	// Manual records have no upstream system to fetch content from.
	SourceManual SourceType = "manual"
)

// IsValid returns true if the source type is recognised.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceMail, SourceCalendar, SourceFile, SourceChat, SourceNotes, SourceCode, SourceManual:
		return true
	default:
		return false
	}
}

// Fetchable returns true if full content can be fetched from the
// originating system. Manual entries are complete as stored.
func (s SourceType) Fetchable() bool {
	return s.IsValid() && s != SourceManual
}

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// Record represents a single communication, document, or message
// normalised to a common shape regardless of its originating source.
type Record struct {
	// ID is the internal identifier assigned by the store.
	ID string

	// ExternalID is the identifier in the originating system.
	// ExternalID together with Source is the natural dedup key
	// across the user's whole record set.
	ExternalID string

	// Source is the originating system.
	Source SourceType

	// AccountRef identifies the connected account the record came from
	// (e.g. "user@gmail.com", a Slack workspace ID).
	AccountRef string

	// TopicID links the record to a topic, empty if unlinked.
	TopicID string

	// Title is the human-readable title (subject line, filename, page title).
	Title string

	// Snippet is a short preview of the content.
	Snippet string

	// Body is the full content, empty until enriched.
	Body string

	// URL is a deep link back to the record in its source system.
	URL string

	// OccurredAt is when the record happened (sent, modified, started).
	OccurredAt time.Time

	// Metadata contains source-specific key-value pairs. Well-known
	// optional keys: "from", "to", "cc", "bcc", "attendees", "author",
	// "username", "channel". Operations read only the keys they need
	// and never require full-shape conformance.
	Metadata map[string]any
}

// Key returns the dedup key "source:externalID".
func (r Record) Key() string {
	return string(r.Source) + ":" + r.ExternalID
}

// Attachment describes a file attached to a record.
type Attachment struct {
	// Name is the attachment filename.
	Name string

	// MIMEType is the content type.
	MIMEType string

	// URL is a link to the attachment, if the source provides one.
	URL string
}

// Content is the result of fetching a record's full content from its source.
type Content struct {
	// Body is the full text content.
	Body string

	// Attachments lists files attached to the record.
	Attachments []Attachment

	// Metadata contains additional source-specific fields discovered
	// during the fetch.
	Metadata map[string]any
}

// EnrichmentOutcome reports the result of enriching one record.
type EnrichmentOutcome struct {
	// RecordID is the internal ID of the processed record.
	RecordID string

	// Body is the record's body after enrichment (cached or fetched).
	Body string

	// Attachments lists attachments discovered during the fetch.
	Attachments []Attachment

	// Metadata contains extra metadata discovered during the fetch.
	Metadata map[string]any

	// Cached is true when the record already had a body and no
	// fetch was performed.
	Cached bool

	// Succeeded is false only when a fetch was attempted and failed.
	Succeeded bool

	// Err holds the fetch failure, nil on success.
	Err error
}
