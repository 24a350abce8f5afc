package calendar

import (
	"strings"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

const snippetLen = 200

// eventToRecord converts a calendar event to a Record.
func eventToRecord(event *calendarapi.Event, account string) domain.Record {
	metadata := map[string]any{}
	if attendees := attendeeList(event); attendees != "" {
		metadata["attendees"] = attendees
	}
	if event.Organizer != nil && event.Organizer.Email != "" {
		metadata["from"] = event.Organizer.Email
	}
	if event.Location != "" {
		metadata["location"] = event.Location
	}

	snippet := event.Description
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}

	return domain.Record{
		ExternalID: event.Id,
		Source:     domain.SourceCalendar,
		AccountRef: account,
		Title:      event.Summary,
		Snippet:    snippet,
		URL:        event.HtmlLink,
		OccurredAt: eventStart(event),
		Metadata:   metadata,
	}
}

// eventStart parses the event start time. All-day events carry a date
// without a time component.
func eventStart(event *calendarapi.Event) time.Time {
	if event.Start == nil {
		return time.Time{}
	}
	if event.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
			return t
		}
	}
	if event.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", event.Start.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// attendeeList joins attendee emails into a comma-separated string.
func attendeeList(event *calendarapi.Event) string {
	emails := make([]string, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		if a.Email != "" {
			emails = append(emails, a.Email)
		}
	}
	return strings.Join(emails, ", ")
}

// eventBody assembles the fetched content for an event: the location
// line (when present) followed by the description.
func eventBody(event *calendarapi.Event) string {
	var parts []string
	if event.Location != "" {
		parts = append(parts, "Location: "+event.Location)
	}
	if event.Description != "" {
		parts = append(parts, event.Description)
	}
	return strings.Join(parts, "\n\n")
}
