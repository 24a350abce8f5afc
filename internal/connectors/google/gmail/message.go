package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// buildQuery converts a search query to Gmail query syntax.
// Date bounds use Gmail's after:/before: operators.
func buildQuery(query domain.SearchQuery) string {
	var sb strings.Builder
	sb.WriteString(query.Query)

	if !query.After.IsZero() {
		fmt.Fprintf(&sb, " after:%s", query.After.Format("2006/01/02"))
	}
	if !query.Before.IsZero() {
		fmt.Fprintf(&sb, " before:%s", query.Before.Format("2006/01/02"))
	}

	return strings.TrimSpace(sb.String())
}

// messageToRecord converts a Gmail message (metadata format) to a Record.
func messageToRecord(msg *gmailapi.Message, owner, account string) domain.Record {
	metadata := map[string]any{
		"thread_id": msg.ThreadId,
	}
	for _, key := range []string{"From", "To", "Cc"} {
		if v := headerValue(msg.Payload, key); v != "" {
			metadata[strings.ToLower(key)] = v
		}
	}

	return domain.Record{
		ExternalID: msg.Id,
		Source:     domain.SourceMail,
		AccountRef: account,
		Title:      headerValue(msg.Payload, "Subject"),
		Snippet:    msg.Snippet,
		URL:        fmt.Sprintf("https://mail.google.com/mail/u/0/#all/%s", msg.Id),
		OccurredAt: time.UnixMilli(msg.InternalDate).UTC(),
		Metadata:   metadata,
	}
}

// headerValue returns the value of the named header, empty if absent.
func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the message payload looking for a text/plain part,
// falling back to text/html. Part data is base64url-encoded.
func extractBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}
	if body := findPart(payload, "text/plain"); body != "" {
		return body
	}
	return findPart(payload, "text/html")
}

func findPart(part *gmailapi.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodePartData(part.Body.Data)
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// decodePartData decodes base64url part data. The API serves unpadded
// data, so try the raw alphabet when the strict decode fails.
func decodePartData(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// extractAttachments collects parts that carry a filename.
func extractAttachments(payload *gmailapi.MessagePart) []domain.Attachment {
	if payload == nil {
		return nil
	}

	var attachments []domain.Attachment
	var walk func(part *gmailapi.MessagePart)
	walk = func(part *gmailapi.MessagePart) {
		if part.Filename != "" {
			attachments = append(attachments, domain.Attachment{
				Name:     part.Filename,
				MIMEType: part.MimeType,
			})
		}
		for _, child := range part.Parts {
			walk(child)
		}
	}
	walk(payload)

	return attachments
}
