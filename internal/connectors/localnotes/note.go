package localnotes

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// matchFile checks one indexed note against the query terms and builds
// a record when all terms appear in the filename or content.
func (c *Connector) matchFile(rel string, terms []string, query domain.SearchQuery) (domain.Record, bool) {
	c.mu.RLock()
	modTime, ok := c.files[rel]
	c.mu.RUnlock()
	if !ok {
		return domain.Record{}, false
	}

	if !query.After.IsZero() && modTime.Before(query.After) {
		return domain.Record{}, false
	}
	if !query.Before.IsZero() && modTime.After(query.Before) {
		return domain.Record{}, false
	}

	body, err := c.readNote(rel)
	if err != nil {
		return domain.Record{}, false
	}

	haystack := strings.ToLower(rel) + "\n" + strings.ToLower(body)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return domain.Record{}, false
		}
	}

	abs := filepath.Join(c.root, rel)

	return domain.Record{
		ExternalID: rel,
		Source:     domain.SourceNotes,
		AccountRef: c.account,
		Title:      noteTitle(rel, body),
		Snippet:    matchSnippet(body, terms),
		URL:        "file://" + abs,
		OccurredAt: modTime,
		Metadata:   map[string]any{"path": rel},
	}, true
}

// readNote reads a note by its relative path, capped at maxFileSize.
func (c *Connector) readNote(rel string) (string, error) {
	f, err := os.Open(filepath.Join(c.root, rel))
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// noteTitle returns the first markdown heading, falling back to the
// filename without extension.
func noteTitle(rel, body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}

	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// matchSnippet returns the first line containing any query term,
// truncated to the snippet length. Falls back to the start of the body.
func matchSnippet(body string, terms []string) string {
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(line)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return truncate(strings.TrimSpace(line))
			}
		}
	}
	return truncate(strings.TrimSpace(body))
}

func truncate(s string) string {
	if len(s) > snippetLen {
		return s[:snippetLen]
	}
	return s
}
