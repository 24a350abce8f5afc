// Package slack implements the chat source connector on top of the
// Slack Web API. The API surface used here is small (message search
// and thread replies) so the client is a plain HTTP wrapper.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the Slack Web API endpoint.
	DefaultBaseURL = "https://slack.com/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	defaultMaxResults = 20
	snippetLen        = 200
)

// Config holds Slack connector configuration.
type Config struct {
	// Token is the user token used for search (xoxp).
	Token string

	// Workspace identifies the workspace, used as the account reference.
	Workspace string

	// BaseURL overrides the API endpoint, for testing.
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration
}

// Connector searches and fetches Slack messages for one workspace.
type Connector struct {
	config     Config
	httpClient *http.Client
}

var _ driven.SourceConnector = (*Connector)(nil)

// NewConnector creates a Slack connector with the given configuration.
func NewConnector(config Config) (*Connector, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Connector{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Source implements driven.SourceConnector.
func (c *Connector) Source() domain.SourceType {
	return domain.SourceChat
}

// AccountRef implements driven.SourceConnector.
func (c *Connector) AccountRef() string {
	return c.config.Workspace
}

// Search finds messages matching the query via search.messages.
func (c *Connector) Search(ctx context.Context, owner string, query domain.SearchQuery) ([]domain.Record, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("query", buildQuery(query))
	params.Set("count", strconv.Itoa(maxResults))

	var result searchResponse
	if err := c.call(ctx, "search.messages", params, &result); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(result.Messages.Matches))
	for _, match := range result.Messages.Matches {
		records = append(records, matchToRecord(match, c.config.Workspace))
	}

	return records, nil
}

// FetchContent retrieves the full thread a message belongs to, joined
// into a single transcript.
func (c *Connector) FetchContent(ctx context.Context, _ string, record domain.Record) (*domain.Content, error) {
	channelID, ts, ok := splitExternalID(record.ExternalID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed slack record ID %q", domain.ErrInvalidInput, record.ExternalID)
	}

	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", ts)

	var result repliesResponse
	if err := c.call(ctx, "conversations.replies", params, &result); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(result.Messages))
	for _, msg := range result.Messages {
		author := msg.Username
		if author == "" {
			author = msg.User
		}
		lines = append(lines, fmt.Sprintf("%s: %s", author, msg.Text))
	}

	return &domain.Content{Body: strings.Join(lines, "\n")}, nil
}

// Close implements driven.SourceConnector.
func (c *Connector) Close() error {
	return nil
}

// call performs a GET request against one API method and decodes the
// response, translating Slack's ok:false errors into domain errors.
func (c *Connector) call(ctx context.Context, method string, params url.Values, out apiResponse) error {
	reqURL := c.config.BaseURL + "/" + method + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: slack %s", domain.ErrRateLimited, method)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack %s returned status %d", method, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode slack response: %w", err)
	}

	if !out.succeeded() {
		return wrapAPIError(method, out.errorCode())
	}

	return nil
}

// wrapAPIError maps Slack error codes to domain errors.
func wrapAPIError(method, code string) error {
	switch code {
	case "not_authed", "invalid_auth", "token_revoked", "token_expired":
		return fmt.Errorf("%w: slack %s: %s", domain.ErrAuthExpired, method, code)
	case "missing_scope", "not_allowed_token_type":
		return fmt.Errorf("%w: slack %s: %s", domain.ErrAuthRequired, method, code)
	case "ratelimited":
		return fmt.Errorf("%w: slack %s", domain.ErrRateLimited, method)
	default:
		return fmt.Errorf("slack %s failed: %s", method, code)
	}
}
