package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// Google Workspace MIME types that can be exported.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize is the maximum size for exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// fileToRecord converts a Drive file to a Record.
func fileToRecord(file *driveapi.File, account string) domain.Record {
	metadata := map[string]any{
		"mime_type": file.MimeType,
	}
	if len(file.Owners) > 0 && file.Owners[0].EmailAddress != "" {
		metadata["author"] = file.Owners[0].EmailAddress
	}

	return domain.Record{
		ExternalID: file.Id,
		Source:     domain.SourceFile,
		AccountRef: account,
		Title:      file.Name,
		URL:        file.WebViewLink,
		OccurredAt: parseModifiedTime(file.ModifiedTime),
		Metadata:   metadata,
	}
}

func parseModifiedTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// fetchFileContent retrieves the text content of a file. Google
// Workspace files are exported; binary files and files over the size
// limit yield an empty string.
func fetchFileContent(ctx context.Context, svc *driveapi.Service, file *driveapi.File) (string, error) {
	switch file.MimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return exportGoogleFile(ctx, svc, file.Id, ExportMimeText)
	case MimeTypeGoogleSheet:
		return exportGoogleFile(ctx, svc, file.Id, ExportMimeCSV)
	}

	if !isTextFile(file.MimeType) || file.Size > MaxExportSize {
		return "", nil
	}

	resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read file content: %w", err)
	}

	return string(data), nil
}

// exportGoogleFile exports a Google Workspace file to the specified format.
func exportGoogleFile(ctx context.Context, svc *driveapi.Service, fileID, exportMime string) (string, error) {
	resp, err := svc.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}

	return string(data), nil
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	textTypes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/x-sh",
		"application/sql",
	}

	for _, t := range textTypes {
		if mimeType == t {
			return true
		}
	}

	return false
}
