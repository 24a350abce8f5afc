// Package gmail implements the mail source connector on top of the
// Gmail API.
package gmail

import (
	"context"
	"fmt"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/topicos/internal/connectors/google"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const defaultMaxResults = 20

// metadataHeaders are the headers requested when listing search results.
var metadataHeaders = []string{"Subject", "From", "To", "Cc", "Date"}

// Connector searches and fetches Gmail messages for one account.
type Connector struct {
	svc     *gmailapi.Service
	account string
	limiter *google.RateLimiter
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a Gmail connector for the given account.
func NewConnector(ctx context.Context, account string, tokens google.TokenProvider) (*Connector, error) {
	svc, err := google.NewGmailService(ctx, google.NewTokenSource(ctx, tokens))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &Connector{
		svc:     svc,
		account: account,
		limiter: google.NewRateLimiter(google.ServiceGmail),
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceMail
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.account
}

// Search finds messages matching the query. Results carry subject,
// snippet, and addressing metadata but not the message body.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	list, err := c.svc.Users.Messages.List("me").
		Q(buildQuery(query)).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	records := make([]domain.Record, 0, len(list.Messages))
	for _, ref := range list.Messages {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		msg, err := c.svc.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders(metadataHeaders...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, google.WrapError(err)
		}

		records = append(records, messageToRecord(msg, owner, c.account))
	}

	return records, nil
}

// FetchContent retrieves the full message body and attachment list.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	msg, err := c.svc.Users.Messages.Get("me", record.ExternalID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	return &domain.Content{
		Body:        extractBody(msg.Payload),
		Attachments: extractAttachments(msg.Payload),
	}, nil
}

// Close implements driven.SourceConnector. The Gmail client holds no
// resources that need releasing.
func (c *Connector) Close() error {
	return nil
}
