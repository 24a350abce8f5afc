package slack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// apiResponse is the common envelope shape of Slack Web API responses.
type apiResponse interface {
	succeeded() bool
	errorCode() string
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (e envelope) succeeded() bool   { return e.OK }
func (e envelope) errorCode() string { return e.Error }

type searchResponse struct {
	envelope
	Messages struct {
		Matches []searchMatch `json:"matches"`
	} `json:"messages"`
}

type searchMatch struct {
	TS        string `json:"ts"`
	Text      string `json:"text"`
	User      string `json:"user"`
	Username  string `json:"username"`
	Permalink string `json:"permalink"`
	Channel   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

type repliesResponse struct {
	envelope
	Messages []threadMessage `json:"messages"`
}

type threadMessage struct {
	Text     string `json:"text"`
	User     string `json:"user"`
	Username string `json:"username"`
}

// buildQuery converts a search query to Slack search syntax. Date
// bounds use the after:/before: modifiers.
func buildQuery(query domain.SearchQuery) string {
	var sb strings.Builder
	sb.WriteString(query.Query)

	if !query.After.IsZero() {
		fmt.Fprintf(&sb, " after:%s", query.After.Format("2006-01-02"))
	}
	if !query.Before.IsZero() {
		fmt.Fprintf(&sb, " before:%s", query.Before.Format("2006-01-02"))
	}

	return strings.TrimSpace(sb.String())
}

// matchToRecord converts a search match to a Record. The external ID
// combines channel and message timestamp since message timestamps are
// only unique per channel.
func matchToRecord(match searchMatch, workspace string) domain.Record {
	snippet := match.Text
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}

	metadata := map[string]any{}
	if match.Username != "" {
		metadata["username"] = match.Username
	}
	if match.Channel.Name != "" {
		metadata["channel"] = match.Channel.Name
	}

	return domain.Record{
		ExternalID: match.Channel.ID + ":" + match.TS,
		Source:     domain.SourceChat,
		AccountRef: workspace,
		Title:      messageTitle(match),
		Snippet:    snippet,
		URL:        match.Permalink,
		OccurredAt: parseTS(match.TS),
		Metadata:   metadata,
	}
}

func messageTitle(match searchMatch) string {
	if match.Channel.Name != "" {
		return "#" + match.Channel.Name
	}
	return "Slack message"
}

// parseTS parses a Slack message timestamp ("1712345678.901234").
func parseTS(ts string) time.Time {
	seconds, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

// splitExternalID splits a "channelID:ts" external ID.
func splitExternalID(id string) (channelID, ts string, ok bool) {
	channelID, ts, found := strings.Cut(id, ":")
	if !found || channelID == "" || ts == "" {
		return "", "", false
	}
	return channelID, ts, true
}
