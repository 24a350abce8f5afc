// Package github implements the code source connector on top of the
// GitHub search API. Records are issues and pull requests.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	defaultMaxResults = 20
	snippetLen        = 200
	maxComments       = 50
)

// Connector searches and fetches GitHub issues and pull requests for
// one account.
type Connector struct {
	gh      *gh.Client
	account string
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a GitHub connector authenticated with the given
// token. The account is the GitHub login, used as the account reference.
func NewConnector(ctx context.Context, account, token string) (*Connector, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Connector{
		gh:      gh.NewClient(tc),
		account: account,
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceCode
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.account
}

// Search finds issues and pull requests matching the query.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: maxResults},
	}

	result, _, err := c.gh.Search.Issues(ctx, buildQuery(query), opts)
	if err != nil {
		return nil, wrapError(err)
	}

	records := make([]domain.Record, 0, len(result.Issues))
	for _, issue := range result.Issues {
		rec, err := issueToRecord(issue, c.account)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// FetchContent retrieves the issue body and its comment thread.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	repoOwner, repoName, number, err := splitExternalID(record.ExternalID)
	if err != nil {
		return nil, err
	}

	issue, _, err := c.gh.Issues.Get(ctx, repoOwner, repoName, number)
	if err != nil {
		return nil, wrapError(err)
	}

	comments, _, err := c.gh.Issues.ListComments(ctx, repoOwner, repoName, number, &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: maxComments},
	})
	if err != nil {
		return nil, wrapError(err)
	}

	return &domain.Content{Body: issueBody(issue, comments)}, nil
}

// Close implements driven.SourceConnector.
func (c *Connector) Close() error {
	return nil
}

// buildQuery converts a search query to GitHub search syntax. Date
// bounds use the updated qualifier.
func buildQuery(query domain.SearchQuery) string {
	var sb strings.Builder
	sb.WriteString(query.Query)

	if !query.After.IsZero() {
		fmt.Fprintf(&sb, " updated:>=%s", query.After.Format("2006-01-02"))
	}
	if !query.Before.IsZero() {
		fmt.Fprintf(&sb, " updated:<=%s", query.Before.Format("2006-01-02"))
	}

	return strings.TrimSpace(sb.String())
}

// wrapError classifies go-github errors into the domain's error taxonomy.
func wrapError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: github", domain.ErrRateLimited)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: github: %s", domain.ErrAuthExpired, respErr.Message)
		case http.StatusForbidden:
			return fmt.Errorf("%w: github: %s", domain.ErrAuthRequired, respErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: github: %s", domain.ErrNotFound, respErr.Message)
		}
	}

	return err
}
