// Package blocktype is the static catalog of block type descriptors:
// display metadata for the slash menu, markdown block triggers, and the
// default properties a freshly created or converted block starts with.
package blocktype

import "blockpad/internal/domain"

// Descriptor describes one block type for the menu and the trigger table.
type Descriptor struct {
	Type    domain.BlockType
	Label   string
	Glyph   string // emoji shown in the slash menu
	Hint    string // one-line description shown under the label
	Trigger string // markdown block trigger, "" if none
}

// descriptors is the menu order. Trigger matching walks this same list,
// so a type listed earlier wins when two triggers could apply.
var descriptors = []Descriptor{
	{domain.BlockTypeParagraph, "Text", "📝", "Plain text block", ""},
	{domain.BlockTypeHeading1, "Heading 1", "🔠", "Large section heading", "#"},
	{domain.BlockTypeHeading2, "Heading 2", "🔡", "Medium section heading", "##"},
	{domain.BlockTypeHeading3, "Heading 3", "🔤", "Small section heading", "###"},
	{domain.BlockTypeBulletedList, "Bulleted list", "•", "Simple bulleted list", "-"},
	{domain.BlockTypeNumberedList, "Numbered list", "🔢", "Ordered list with numbers", "1."},
	{domain.BlockTypeTodo, "To-do", "☑️", "Checkbox task item", "[]"},
	{domain.BlockTypeToggle, "Toggle", "▶️", "Collapsible content", ""},
	{domain.BlockTypeQuote, "Quote", "❝", "Capture a quotation", ">"},
	{domain.BlockTypeCallout, "Callout", "💡", "Emphasized note with an emoji", "\""},
	{domain.BlockTypeDivider, "Divider", "➖", "Horizontal rule", "---"},
	{domain.BlockTypeCode, "Code", "💻", "Code snippet with syntax language", "```"},
	{domain.BlockTypeImage, "Image", "🖼", "Embed an image", ""},
	{domain.BlockTypeBookmark, "Bookmark", "🔖", "Link preview card", ""},
	{domain.BlockTypeTable, "Table", "🗒", "Simple table", ""},
	{domain.BlockTypeDatabase, "Database", "🗃", "Structured records", ""},
}

// triggerAliases maps extra trigger spellings onto the canonical type.
// Checked after the descriptor triggers, in this order.
var triggerAliases = []struct {
	Trigger string
	Type    domain.BlockType
}{
	{"*", domain.BlockTypeBulletedList},
	{"[ ]", domain.BlockTypeTodo},
}

// All returns the descriptors in menu order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Get returns the descriptor for a type, false if the type is unknown.
func Get(t domain.BlockType) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Type == t {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Valid reports whether t is a known block type.
func Valid(t domain.BlockType) bool {
	_, ok := Get(t)
	return ok
}

// FromTrigger resolves a markdown block trigger (the text typed before the
// space) to a block type. Descriptor order decides priority.
func FromTrigger(text string) (domain.BlockType, bool) {
	for _, d := range descriptors {
		if d.Trigger != "" && d.Trigger == text {
			return d.Type, true
		}
	}
	for _, a := range triggerAliases {
		if a.Trigger == text {
			return a.Type, true
		}
	}
	return "", false
}

// DefaultProperties returns the properties a block of type t starts with
// after creation or conversion.
func DefaultProperties(t domain.BlockType) domain.Properties {
	switch t {
	case domain.BlockTypeTodo:
		return domain.Properties{"checked": false}
	case domain.BlockTypeToggle:
		return domain.Properties{"collapsed": false}
	case domain.BlockTypeCode:
		return domain.Properties{"language": "plaintext"}
	case domain.BlockTypeCallout:
		return domain.Properties{"emoji": "💡"}
	case domain.BlockTypeImage:
		return domain.Properties{"src": "", "caption": ""}
	case domain.BlockTypeBookmark:
		return domain.Properties{"url": "", "title": "", "description": "", "image": ""}
	default:
		return domain.Properties{}
	}
}
