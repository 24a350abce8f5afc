package github

import (
	"fmt"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// issueToRecord converts a search result issue to a Record. The
// external ID is "owner/repo#number", the stable identity of an issue
// across the API.
func issueToRecord(issue *gh.Issue, account string) (domain.Record, error) {
	repoOwner, repoName, err := repoFromURL(issue.GetRepositoryURL())
	if err != nil {
		return domain.Record{}, err
	}

	snippet := issue.GetBody()
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}

	kind := "issue"
	if issue.IsPullRequest() {
		kind = "pull_request"
	}

	metadata := map[string]any{
		"repo":  repoOwner + "/" + repoName,
		"kind":  kind,
		"state": issue.GetState(),
	}
	if login := issue.GetUser().GetLogin(); login != "" {
		metadata["username"] = login
	}

	return domain.Record{
		ExternalID: fmt.Sprintf("%s/%s#%d", repoOwner, repoName, issue.GetNumber()),
		Source:     domain.SourceCode,
		AccountRef: account,
		Title:      issue.GetTitle(),
		Snippet:    snippet,
		URL:        issue.GetHTMLURL(),
		OccurredAt: issue.GetUpdatedAt().Time,
		Metadata:   metadata,
	}, nil
}

// repoFromURL extracts owner and name from an API repository URL
// ("https://api.github.com/repos/owner/name").
func repoFromURL(url string) (owner, name string, err error) {
	const marker = "/repos/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("unexpected repository URL %q", url)
	}

	parts := strings.Split(url[idx+len(marker):], "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("unexpected repository URL %q", url)
	}

	return parts[0], parts[1], nil
}

// splitExternalID parses an "owner/repo#number" external ID.
func splitExternalID(id string) (owner, repo string, number int, err error) {
	path, num, found := strings.Cut(id, "#")
	if !found {
		return "", "", 0, fmt.Errorf("%w: malformed github record ID %q", domain.ErrInvalidInput, id)
	}

	owner, repo, found = strings.Cut(path, "/")
	if !found || owner == "" || repo == "" {
		return "", "", 0, fmt.Errorf("%w: malformed github record ID %q", domain.ErrInvalidInput, id)
	}

	number, err = strconv.Atoi(num)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: malformed github record ID %q", domain.ErrInvalidInput, id)
	}

	return owner, repo, number, nil
}

// issueBody assembles the fetched content: the issue body followed by
// its comment thread.
func issueBody(issue *gh.Issue, comments []*gh.IssueComment) string {
	var sb strings.Builder
	sb.WriteString(issue.GetBody())

	for _, comment := range comments {
		sb.WriteString("\n\n---\n")
		if login := comment.GetUser().GetLogin(); login != "" {
			sb.WriteString(login + ":\n")
		}
		sb.WriteString(comment.GetBody())
	}

	return sb.String()
}
