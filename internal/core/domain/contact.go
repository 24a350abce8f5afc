package domain

import "time"

// Contact represents a person in the user's contact set.
type Contact struct {
	// ID is the unique identifier.
	ID string

	// Owner identifies the user the contact belongs to.
	Owner string

	// Name is the display name.
	Name string

	// Email is the primary email address, may be empty.
	Email string

	// Role is the person's role or title, if known.
	Role string

	// Organization is the person's company or team, if known.
	Organization string
}

// ExtractedPerson is a person mentioned in records, as identified by
// the completion backend during the contact-extraction stage.
type ExtractedPerson struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// ContactStats summarises a contact's presence in the user's records.
type ContactStats struct {
	// Count is the number of recent records mentioning the contact.
	Count int

	// LastInteractionAt is the occurrence time of the most recent
	// mention, nil when there are none.
	LastInteractionAt *time.Time

	// TopicIDs is the deduplicated set of topics containing a mention.
	TopicIDs []string
}
