package editor

import (
	"blockpad/internal/blocktype"
	"blockpad/internal/domain"
)

// Menu is the slash-command palette: a modal, keyboard-navigable list of
// block type descriptors targeting one block. Opened by "/" on an empty
// block or by the add-block affordance.
type Menu struct {
	doc      *Document
	open     bool
	targetID string
	selected int
	items    []blocktype.Descriptor
}

// NewMenu creates a closed menu over the document.
func NewMenu(doc *Document) *Menu {
	return &Menu{doc: doc, items: blocktype.All()}
}

// Open opens the menu over a target block, resetting the highlight.
func (m *Menu) Open(targetID string) {
	m.open = true
	m.targetID = targetID
	m.selected = 0
}

// Close closes without committing. Escape and outside clicks land here.
func (m *Menu) Close() {
	m.open = false
	m.targetID = ""
	m.selected = 0
}

// IsOpen reports whether the palette is showing.
func (m *Menu) IsOpen() bool {
	return m.open
}

// Items returns the selectable descriptors in menu order.
func (m *Menu) Items() []blocktype.Descriptor {
	return m.items
}

// Selected returns the currently highlighted index.
func (m *Menu) Selected() int {
	return m.selected
}

// MoveUp moves the highlight up, clamped at the first item.
func (m *Menu) MoveUp() {
	if m.open && m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the highlight down, clamped at the last item.
func (m *Menu) MoveDown() {
	if m.open && m.selected < len(m.items)-1 {
		m.selected++
	}
}

// Commit applies the highlighted type to the target: an empty target is
// converted in place, a non-empty one gets a new block of that type
// inserted immediately after. Either way the menu closes and the
// resulting block is returned.
func (m *Menu) Commit() (*domain.Block, bool) {
	if !m.open {
		return nil, false
	}
	chosen := m.items[m.selected].Type
	target, ok := m.doc.Get(m.targetID)
	m.Close()
	if !ok {
		return nil, false
	}

	if target.Content == "" {
		m.doc.Convert(target.ID, chosen)
		b, _ := m.doc.Get(target.ID)
		return b, true
	}

	b, err := m.doc.Create(chosen, "", target.ID, nil)
	if err != nil {
		return nil, false
	}
	return b, true
}
