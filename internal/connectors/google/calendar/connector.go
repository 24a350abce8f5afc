// Package calendar implements the calendar source connector on top of
// the Google Calendar API.
package calendar

import (
	"context"
	"fmt"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/topicos/internal/connectors/google"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const defaultMaxResults = 20

// Connector searches and fetches calendar events for one account.
type Connector struct {
	svc     *calendarapi.Service
	account string
	limiter *google.RateLimiter
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a Calendar connector for the given account.
func NewConnector(ctx context.Context, account string, tokens google.TokenProvider) (*Connector, error) {
	svc, err := google.NewCalendarService(ctx, google.NewTokenSource(ctx, tokens))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &Connector{
		svc:     svc,
		account: account,
		limiter: google.NewRateLimiter(google.ServiceCalendar),
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceCalendar
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.account
}

// Search finds events on the primary calendar matching the query text.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	call := c.svc.Events.List("primary").
		Q(query.Query).
		MaxResults(int64(maxResults)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if !query.After.IsZero() {
		call = call.TimeMin(query.After.Format(time.RFC3339))
	}
	if !query.Before.IsZero() {
		call = call.TimeMax(query.Before.Format(time.RFC3339))
	}

	events, err := call.Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	records := make([]domain.Record, 0, len(events.Items))
	for _, event := range events.Items {
		records = append(records, eventToRecord(event, c.account))
	}

	return records, nil
}

// FetchContent retrieves the event description and its attachments.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	event, err := c.svc.Events.Get("primary", record.ExternalID).Context(ctx).Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	var attachments []domain.Attachment
	for _, att := range event.Attachments {
		attachments = append(attachments, domain.Attachment{
			Name:     att.Title,
			MIMEType: att.MimeType,
			URL:      att.FileUrl,
		})
	}

	return &domain.Content{
		Body:        eventBody(event),
		Attachments: attachments,
	}, nil
}

// Close implements driven.SourceConnector.
func (c *Connector) Close() error {
	return nil
}
