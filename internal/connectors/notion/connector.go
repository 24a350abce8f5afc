// Package notion implements a notes source connector on top of the
// Notion API. Records are workspace pages.
package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const (
	defaultMaxResults = 20
	blockPageSize     = 100
)

// Connector searches and fetches Notion pages for one workspace.
type Connector struct {
	client    *notionapi.Client
	workspace string
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a Notion connector authenticated with the given
// integration token. The workspace name is used as the account reference.
func NewConnector(workspace, token string) (*Connector, error) {
	if token == "" {
		return nil, fmt.Errorf("notion token is required")
	}

	return &Connector{
		client:    notionapi.NewClient(notionapi.Token(token)),
		workspace: workspace,
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceNotes
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.workspace
}

// Search finds pages matching the query. The Notion search endpoint
// has no date filtering, so time bounds are applied to the results.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := c.client.Search.Do(ctx, &notionapi.SearchRequest{
		Query:    query.Query,
		PageSize: maxResults,
		Filter: notionapi.SearchFilter{
			Value:    "page",
			Property: "object",
		},
	})
	if err != nil {
		return nil, wrapError(err)
	}

	records := make([]domain.Record, 0, len(resp.Results))
	for _, result := range resp.Results {
		page, ok := result.(*notionapi.Page)
		if !ok {
			continue
		}
		if !query.After.IsZero() && page.LastEditedTime.Before(query.After) {
			continue
		}
		if !query.Before.IsZero() && page.LastEditedTime.After(query.Before) {
			continue
		}
		records = append(records, pageToRecord(page, c.workspace))
	}

	return records, nil
}

// FetchContent retrieves the page's block children rendered as plain text.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	resp, err := c.client.Block.GetChildren(ctx, notionapi.BlockID(record.ExternalID), &notionapi.Pagination{
		PageSize: blockPageSize,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	return &domain.Content{Body: renderBlocks(resp.Results)}, nil
}

// Close implements driven.SourceConnector.
func (c *Connector) Close() error {
	return nil
}

// wrapError classifies Notion API errors into the domain's error taxonomy.
func wrapError(err error) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: notion: %s", domain.ErrAuthExpired, apiErr.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: notion: %s", domain.ErrAuthRequired, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: notion: %s", domain.ErrNotFound, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: notion", domain.ErrRateLimited)
	default:
		return err
	}
}
