package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// pageToRecord converts a Notion page to a Record. Pages have no body
// preview in search results, so the snippet stays empty until fetched.
func pageToRecord(page *notionapi.Page, workspace string) domain.Record {
	return domain.Record{
		ExternalID: page.ID.String(),
		Source:     domain.SourceNotes,
		AccountRef: workspace,
		Title:      pageTitle(page),
		URL:        page.URL,
		OccurredAt: page.LastEditedTime,
		Metadata:   map[string]any{},
	}
}

// pageTitle finds the title property of a page. Notion pages carry the
// title under a caller-defined property name, so all properties are
// scanned for the title type.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		title, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		return plainText(title.Title)
	}
	return ""
}

// renderBlocks renders page blocks to plain text, one block per line.
// Unsupported block types (tables, embeds, media) are skipped.
func renderBlocks(blocks []notionapi.Block) string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if text := blockText(block); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return plainText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return "- " + plainText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return "- " + plainText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return "- " + plainText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		return plainText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return plainText(b.Callout.RichText)
	case *notionapi.CodeBlock:
		return plainText(b.Code.RichText)
	default:
		return ""
	}
}

func plainText(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}
