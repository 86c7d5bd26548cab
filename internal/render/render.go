package render

import (
	"strconv"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
	"blockpad/internal/inline"
	"blockpad/internal/sanitize"
)

// PlaceholderText is shown for a page with zero blocks.
const PlaceholderText = "Click to start typing"

// Renderer is a pure mapping from block records to presentational nodes.
// Inline formatting comes from the session's transient fragments.
type Renderer struct {
	sess *editor.Session
}

func NewRenderer(sess *editor.Session) *Renderer {
	return &Renderer{sess: sess}
}

// Page renders the loaded page: every top-level block in order, or the
// empty-state placeholder.
func (r *Renderer) Page() *Node {
	root := NewNode("div").Attr("class", "page")
	doc := r.sess.Document()
	if doc.Empty() {
		return root.Append(
			NewNode("div").Attr("class", "page-placeholder").Append(TextNode(PlaceholderText)),
		)
	}
	for _, b := range doc.Siblings("") {
		root.Append(r.Block(b))
	}
	return root
}

// Block renders a single block record into its presentational form.
func (r *Renderer) Block(b *domain.Block) *Node {
	n := r.blockBody(b)
	n.Attr("data-block-id", b.ID).Attr("data-type", string(b.Type)).Attr("draggable", "true")
	return n
}

func (r *Renderer) blockBody(b *domain.Block) *Node {
	switch b.Type {
	case domain.BlockTypeHeading1:
		return NewNode("h1").Append(r.text(b)...)
	case domain.BlockTypeHeading2:
		return NewNode("h2").Append(r.text(b)...)
	case domain.BlockTypeHeading3:
		return NewNode("h3").Append(r.text(b)...)
	case domain.BlockTypeBulletedList:
		return NewNode("li").Attr("data-list", "bulleted").Append(r.text(b)...)
	case domain.BlockTypeNumberedList:
		return NewNode("li").Attr("data-list", "numbered").Append(r.text(b)...)
	case domain.BlockTypeTodo:
		checked, _ := b.Properties["checked"].(bool)
		box := NewNode("input").Attr("type", "checkbox").Attr("checked", strconv.FormatBool(checked))
		label := NewNode("span").Append(r.text(b)...)
		if checked {
			label.Attr("class", "todo-done")
		}
		return NewNode("div").Attr("class", "todo").Append(box, label)
	case domain.BlockTypeToggle:
		collapsed, _ := b.Properties["collapsed"].(bool)
		n := NewNode("details").Attr("data-collapsed", strconv.FormatBool(collapsed))
		n.Append(NewNode("summary").Append(r.text(b)...))
		if !collapsed {
			for _, child := range r.sess.Document().Children(b.ID) {
				n.Append(r.Block(child))
			}
		}
		return n
	case domain.BlockTypeQuote:
		return NewNode("blockquote").Append(r.text(b)...)
	case domain.BlockTypeCallout:
		emoji, _ := b.Properties["emoji"].(string)
		return NewNode("div").Attr("class", "callout").Append(
			NewNode("span").Attr("class", "callout-emoji").Append(TextNode(emoji)),
			NewNode("span").Append(r.text(b)...),
		)
	case domain.BlockTypeDivider:
		return NewNode("hr")
	case domain.BlockTypeCode:
		lang, _ := b.Properties["language"].(string)
		code := NewNode("code").Attr("data-language", lang).Append(TextNode(b.Content))
		return NewNode("pre").Append(code)
	case domain.BlockTypeImage:
		return r.image(b)
	case domain.BlockTypeBookmark:
		return r.bookmark(b)
	case domain.BlockTypeTable, domain.BlockTypeDatabase:
		// Structured views render a shell only; row computation is out of scope.
		return NewNode("div").Attr("class", "grid-shell").Append(r.text(b)...)
	default:
		return NewNode("p").Append(r.text(b)...)
	}
}

// text renders the block's content through its transient fragment, so
// applied inline formatting survives re-renders within the session.
func (r *Renderer) text(b *domain.Block) []*Node {
	frag := r.sess.Fragment(b.ID)
	if frag == nil {
		frag = inline.NewFragment(b.Content)
	}
	var nodes []*Node
	for _, s := range frag.Spans {
		if s.Tag == inline.TagNone {
			nodes = append(nodes, TextNode(s.Text))
			continue
		}
		n := NewNode(string(s.Tag)).Append(TextNode(s.Text))
		if s.Tag == inline.TagAnchor {
			// Links open in a new context with safe cross-origin attributes.
			n.Attr("href", s.Href).Attr("target", "_blank").Attr("rel", "noopener noreferrer")
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func (r *Renderer) image(b *domain.Block) *Node {
	src, _ := b.Properties["src"].(string)
	caption, _ := b.Properties["caption"].(string)

	fig := NewNode("figure")
	if safe := sanitize.ImageURL(src); safe != "" {
		fig.Append(NewNode("img").Attr("src", safe))
	} else {
		fig.Append(NewNode("div").Attr("class", "image-empty").Append(TextNode("Add an image")))
	}
	if caption != "" {
		fig.Append(NewNode("figcaption").Append(TextNode(caption)))
	}
	return fig
}

func (r *Renderer) bookmark(b *domain.Block) *Node {
	url, _ := b.Properties["url"].(string)
	title, _ := b.Properties["title"].(string)
	desc, _ := b.Properties["description"].(string)
	image, _ := b.Properties["image"].(string)

	card := NewNode("div").Attr("class", "bookmark")
	safe := sanitize.URL(url)
	if safe == "" {
		return card.Append(TextNode("Add a bookmark"))
	}
	link := NewNode("a").Attr("href", safe).Attr("target", "_blank").Attr("rel", "noopener noreferrer")
	if title == "" {
		title = safe
	}
	link.Append(NewNode("div").Attr("class", "bookmark-title").Append(TextNode(title)))
	if desc != "" {
		link.Append(NewNode("div").Attr("class", "bookmark-desc").Append(TextNode(desc)))
	}
	if img := sanitize.ImageURL(image); img != "" {
		link.Append(NewNode("img").Attr("src", img))
	}
	return card.Append(link)
}
