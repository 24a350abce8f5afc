package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestEventToRecord(t *testing.T) {
	event := &calendarapi.Event{
		Id:          "evt-1",
		Summary:     "Atlas planning",
		Description: "Quarterly planning for the Atlas rollout",
		HtmlLink:    "https://calendar.google.com/event?eid=evt-1",
		Location:    "Room 4",
		Start:       &calendarapi.EventDateTime{DateTime: "2025-04-02T10:00:00Z"},
		Organizer:   &calendarapi.EventOrganizer{Email: "alice@example.com"},
		Attendees: []*calendarapi.EventAttendee{
			{Email: "alice@example.com"},
			{Email: "bob@example.com"},
		},
	}

	rec := eventToRecord(event, "me@example.com")

	assert.Equal(t, "evt-1", rec.ExternalID)
	assert.Equal(t, domain.SourceCalendar, rec.Source)
	assert.Equal(t, "Atlas planning", rec.Title)
	assert.Equal(t, "Quarterly planning for the Atlas rollout", rec.Snippet)
	assert.Equal(t, time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC), rec.OccurredAt)
	assert.Equal(t, "alice@example.com, bob@example.com", rec.Metadata["attendees"])
	assert.Equal(t, "alice@example.com", rec.Metadata["from"])
	assert.Equal(t, "Room 4", rec.Metadata["location"])
}

func TestEventToRecordTruncatesSnippet(t *testing.T) {
	event := &calendarapi.Event{
		Id:          "evt-2",
		Description: strings.Repeat("x", 500),
	}

	rec := eventToRecord(event, "me@example.com")

	assert.Len(t, rec.Snippet, snippetLen)
}

func TestEventStartAllDay(t *testing.T) {
	event := &calendarapi.Event{
		Start: &calendarapi.EventDateTime{Date: "2025-07-04"},
	}

	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), eventStart(event))
}

func TestEventStartMissing(t *testing.T) {
	assert.True(t, eventStart(&calendarapi.Event{}).IsZero())
}

func TestEventBody(t *testing.T) {
	event := &calendarapi.Event{
		Location:    "Room 4",
		Description: "Agenda attached",
	}

	assert.Equal(t, "Location: Room 4\n\nAgenda attached", eventBody(event))
	assert.Equal(t, "Agenda attached", eventBody(&calendarapi.Event{Description: "Agenda attached"}))
}
