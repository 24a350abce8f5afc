package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	driveapi "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestFileToRecord(t *testing.T) {
	file := &driveapi.File{
		Id:           "file-1",
		Name:         "Roadmap.docx",
		MimeType:     MimeTypeGoogleDoc,
		WebViewLink:  "https://docs.google.com/document/d/file-1",
		ModifiedTime: "2025-03-20T09:15:00Z",
		Owners: []*driveapi.User{
			{EmailAddress: "alice@example.com"},
		},
	}

	rec := fileToRecord(file, "me@example.com")

	assert.Equal(t, "file-1", rec.ExternalID)
	assert.Equal(t, domain.SourceFile, rec.Source)
	assert.Equal(t, "Roadmap.docx", rec.Title)
	assert.Equal(t, "https://docs.google.com/document/d/file-1", rec.URL)
	assert.Equal(t, time.Date(2025, 3, 20, 9, 15, 0, 0, time.UTC), rec.OccurredAt)
	assert.Equal(t, "alice@example.com", rec.Metadata["author"])
	assert.Equal(t, MimeTypeGoogleDoc, rec.Metadata["mime_type"])
}

func TestFileToRecordMissingFields(t *testing.T) {
	rec := fileToRecord(&driveapi.File{Id: "file-2", Name: "notes.txt"}, "me@example.com")

	assert.True(t, rec.OccurredAt.IsZero())
	assert.NotContains(t, rec.Metadata, "author")
}

func TestBuildQuery(t *testing.T) {
	query := domain.SearchQuery{
		Query: "launch plan",
		After: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	got := buildQuery(query)

	assert.Equal(t, "fullText contains 'launch plan' and trashed = false and modifiedTime > '2025-01-01T00:00:00'", got)
}

func TestBuildQueryEscapesQuotes(t *testing.T) {
	got := buildQuery(domain.SearchQuery{Query: "bob's plan"})

	assert.Equal(t, `fullText contains 'bob\'s plan' and trashed = false`, got)
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, isTextFile("text/markdown"))
	assert.True(t, isTextFile("application/json"))
	assert.False(t, isTextFile("image/png"))
	assert.False(t, isTextFile("application/pdf"))
}
