// Package markdown converts between markdown documents and block
// sequences. Import parses a markdown source into blocks (template
// application); Export serializes a page back out.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
)

var parser = goldmark.New()

// ImportedBlock is one parsed block before it gets an id and a page.
type ImportedBlock struct {
	Type       domain.BlockType
	Content    string
	Properties domain.Properties
}

// Import parses a markdown document into an ordered block sequence.
// Unsupported constructs degrade to paragraphs rather than being dropped.
func Import(source []byte) []ImportedBlock {
	root := parser.Parser().Parse(text.NewReader(source))

	var out []ImportedBlock
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, importNode(n, source)...)
	}
	return out
}

func importNode(n ast.Node, source []byte) []ImportedBlock {
	switch node := n.(type) {
	case *ast.Heading:
		t := domain.BlockTypeHeading3
		switch node.Level {
		case 1:
			t = domain.BlockTypeHeading1
		case 2:
			t = domain.BlockTypeHeading2
		}
		return []ImportedBlock{{Type: t, Content: textOf(node, source)}}

	case *ast.List:
		var out []ImportedBlock
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			out = append(out, importListItem(item, source, node.IsOrdered()))
		}
		return out

	case *ast.Blockquote:
		return []ImportedBlock{{Type: domain.BlockTypeQuote, Content: textOf(node, source)}}

	case *ast.FencedCodeBlock:
		lang := "plaintext"
		if info := node.Language(source); len(info) > 0 {
			lang = string(info)
		}
		return []ImportedBlock{{
			Type:       domain.BlockTypeCode,
			Content:    linesOf(node, source),
			Properties: domain.Properties{"language": lang},
		}}

	case *ast.ThematicBreak:
		return []ImportedBlock{{Type: domain.BlockTypeDivider}}

	case *ast.Paragraph:
		content := textOf(node, source)
		if content == "" {
			return nil
		}
		return []ImportedBlock{{Type: domain.BlockTypeParagraph, Content: content}}

	default:
		content := textOf(n, source)
		if content == "" {
			return nil
		}
		return []ImportedBlock{{Type: domain.BlockTypeParagraph, Content: content}}
	}
}

func importListItem(item ast.Node, source []byte, ordered bool) ImportedBlock {
	content := textOf(item, source)

	// Base markdown has no task-list node; detect the checkbox prefix.
	switch {
	case strings.HasPrefix(content, "[ ] "):
		return ImportedBlock{
			Type:       domain.BlockTypeTodo,
			Content:    content[len("[ ] "):],
			Properties: domain.Properties{"checked": false},
		}
	case strings.HasPrefix(content, "[x] "), strings.HasPrefix(content, "[X] "):
		return ImportedBlock{
			Type:       domain.BlockTypeTodo,
			Content:    content[len("[x] "):],
			Properties: domain.Properties{"checked": true},
		}
	}

	t := domain.BlockTypeBulletedList
	if ordered {
		t = domain.BlockTypeNumberedList
	}
	return ImportedBlock{Type: t, Content: content}
}

// Apply creates the imported blocks at the end of the open page, in
// source order.
func Apply(doc *editor.Document, blocks []ImportedBlock) error {
	for _, ib := range blocks {
		if _, err := doc.Create(ib.Type, ib.Content, "", ib.Properties); err != nil {
			return err
		}
	}
	return nil
}

// PreviewHTML renders a markdown source to HTML, for read-only previews.
func PreviewHTML(source string) (string, error) {
	var sb strings.Builder
	if err := parser.Convert([]byte(source), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func textOf(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func linesOf(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}
