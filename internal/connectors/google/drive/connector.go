// Package drive implements the file source connector on top of the
// Google Drive API.
package drive

import (
	"context"
	"fmt"
	"strings"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/topicos/internal/connectors/google"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const defaultMaxResults = 20

// listFields limits the file list response to the fields we map.
const listFields = "files(id, name, mimeType, size, webViewLink, modifiedTime, owners)"

// Connector searches and fetches Drive files for one account.
type Connector struct {
	svc     *driveapi.Service
	account string
	limiter *google.RateLimiter
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a Drive connector for the given account.
func NewConnector(ctx context.Context, account string, tokens google.TokenProvider) (*Connector, error) {
	svc, err := google.NewDriveService(ctx, google.NewTokenSource(ctx, tokens))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Connector{
		svc:     svc,
		account: account,
		limiter: google.NewRateLimiter(google.ServiceDrive),
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceFile
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.account
}

// Search finds files whose content matches the query. Folders are
// excluded from the results.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	list, err := c.svc.Files.List().
		Q(buildQuery(query)).
		PageSize(int64(maxResults)).
		Fields(listFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	records := make([]domain.Record, 0, len(list.Files))
	for _, file := range list.Files {
		if file.MimeType == MimeTypeFolder {
			continue
		}
		records = append(records, fileToRecord(file, c.account))
	}

	return records, nil
}

// FetchContent retrieves the text content of a file. Google Workspace
// files are exported to a text format; binary files yield an empty body.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	file, err := c.svc.Files.Get(record.ExternalID).
		Fields("id, name, mimeType, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, google.WrapError(err)
	}

	body, err := fetchFileContent(ctx, c.svc, file)
	if err != nil {
		return nil, google.WrapError(err)
	}

	return &domain.Content{Body: body}, nil
}

// Close implements driven.SourceConnector.
func (c *Connector) Close() error {
	return nil
}

// buildQuery converts a search query to Drive query syntax. Date bounds
// use the modifiedTime field.
func buildQuery(query domain.SearchQuery) string {
	escaped := strings.ReplaceAll(query.Query, `'`, `\'`)
	parts := []string{
		fmt.Sprintf("fullText contains '%s'", escaped),
		"trashed = false",
	}
	if !query.After.IsZero() {
		parts = append(parts, fmt.Sprintf("modifiedTime > '%s'", query.After.UTC().Format("2006-01-02T15:04:05")))
	}
	if !query.Before.IsZero() {
		parts = append(parts, fmt.Sprintf("modifiedTime < '%s'", query.Before.UTC().Format("2006-01-02T15:04:05")))
	}
	return strings.Join(parts, " and ")
}
