package markdown

import (
	"fmt"
	"strings"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
)

// Export serializes the open page as a markdown document. Nested blocks
// (toggle contents) are emitted as indented lines under their parent.
func Export(doc *editor.Document) string {
	var sb strings.Builder
	exportScope(&sb, doc, "", "")
	return sb.String()
}

func exportScope(sb *strings.Builder, doc *editor.Document, parentID, indent string) {
	numbered := 0
	for _, b := range doc.Siblings(parentID) {
		if b.Type == domain.BlockTypeNumberedList {
			numbered++
		} else {
			numbered = 0
		}
		sb.WriteString(indent)
		sb.WriteString(exportLine(b, numbered))
		sb.WriteString("\n")

		if len(doc.Children(b.ID)) > 0 {
			exportScope(sb, doc, b.ID, indent+"    ")
		}
	}
}

func exportLine(b *domain.Block, numberedIndex int) string {
	switch b.Type {
	case domain.BlockTypeHeading1:
		return "# " + b.Content
	case domain.BlockTypeHeading2:
		return "## " + b.Content
	case domain.BlockTypeHeading3:
		return "### " + b.Content
	case domain.BlockTypeBulletedList, domain.BlockTypeToggle:
		return "- " + b.Content
	case domain.BlockTypeNumberedList:
		return fmt.Sprintf("%d. %s", numberedIndex, b.Content)
	case domain.BlockTypeTodo:
		box := "[ ]"
		if checked, _ := b.Properties["checked"].(bool); checked {
			box = "[x]"
		}
		return "- " + box + " " + b.Content
	case domain.BlockTypeQuote:
		return "> " + b.Content
	case domain.BlockTypeCallout:
		emoji, _ := b.Properties["emoji"].(string)
		return strings.TrimSpace("> " + emoji + " " + b.Content)
	case domain.BlockTypeDivider:
		return "---"
	case domain.BlockTypeCode:
		lang, _ := b.Properties["language"].(string)
		if lang == "plaintext" {
			lang = ""
		}
		return "```" + lang + "\n" + b.Content + "\n```"
	case domain.BlockTypeImage:
		src, _ := b.Properties["src"].(string)
		caption, _ := b.Properties["caption"].(string)
		return fmt.Sprintf("![%s](%s)", caption, src)
	case domain.BlockTypeBookmark:
		url, _ := b.Properties["url"].(string)
		title, _ := b.Properties["title"].(string)
		if title == "" {
			title = url
		}
		return fmt.Sprintf("[%s](%s)", title, url)
	default:
		return b.Content
	}
}
