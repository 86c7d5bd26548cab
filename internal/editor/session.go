package editor

import (
	"context"
	"strings"
	"time"

	"github.com/bep/debounce"

	"blockpad/internal/blocktype"
	"blockpad/internal/domain"
	"blockpad/internal/event"
	"blockpad/internal/inline"
)

// Debounce windows for high-frequency signals. Content writes would
// otherwise hit storage on every keystroke.
const (
	contentSaveDelay = 500 * time.Millisecond
	toolbarDelay     = 150 * time.Millisecond
)

// Direction is a caret movement between sibling blocks.
type Direction int

const (
	DirUp Direction = iota
	DirDown
)

// SpaceResult describes what a space keypress did. When nothing matched,
// Handled is false and the caller inserts the literal space.
type SpaceResult struct {
	Handled     bool
	ConvertedTo domain.BlockType   // set when a block trigger fired
	Replacement inline.Replacement // set when an inline pattern fired
	Inline      bool
}

// Session layers the editing-session rules over a Document: keyboard
// navigation, markdown triggers, debounced autosave and the transient
// inline-formatting state of each rendered block.
type Session struct {
	doc     *Document
	emitter event.Emitter
	menu    *Menu

	fragments  map[string]*inline.Fragment
	savers     map[string]func(func())
	saveDelay  time.Duration
	toolbarFn  func(func())
	toolbarDur time.Duration
}

// NewSession creates a Session over an open document.
func NewSession(doc *Document, emitter event.Emitter) *Session {
	return &Session{
		doc:        doc,
		emitter:    emitter,
		menu:       NewMenu(doc),
		fragments:  map[string]*inline.Fragment{},
		savers:     map[string]func(func()){},
		saveDelay:  contentSaveDelay,
		toolbarDur: toolbarDelay,
	}
}

// Document returns the underlying document.
func (s *Session) Document() *Document {
	return s.doc
}

// Menu returns the slash-command palette.
func (s *Session) Menu() *Menu {
	return s.menu
}

// Fragment returns the transient rich-text form of a block's content,
// building it from the plain content on first access. Formatting lives
// only here; the stored content stays plain text.
func (s *Session) Fragment(blockID string) *inline.Fragment {
	if f, ok := s.fragments[blockID]; ok {
		return f
	}
	b, ok := s.doc.Get(blockID)
	if !ok {
		return nil
	}
	f := inline.NewFragment(b.Content)
	s.fragments[blockID] = f
	return f
}

// SetContent records a content edit: memory updates immediately, the
// persistence write fires after the user pauses typing.
func (s *Session) SetContent(blockID, text string) {
	if !s.doc.Stage(blockID, Patch{Content: &text}) {
		return
	}
	s.fragments[blockID] = inline.NewFragment(text)

	saver, ok := s.savers[blockID]
	if !ok {
		saver = debounce.New(s.saveDelay)
		s.savers[blockID] = saver
	}
	id := blockID
	saver(func() { s.doc.Commit(id) })
}

// HandleEnter implements Enter at the end of a block's text (or on an
// empty block): a new paragraph is created immediately after and focused.
// Mid-text Enter is left to the caller.
func (s *Session) HandleEnter(blockID string, atEnd bool) (*domain.Block, bool) {
	b, ok := s.doc.Get(blockID)
	if !ok {
		return nil, false
	}
	if !atEnd && b.Content != "" {
		return nil, false
	}
	nb, err := s.doc.Create(domain.BlockTypeParagraph, "", blockID, nil)
	if err != nil {
		return nil, false
	}
	s.focus(nb.ID)
	return nb, true
}

// HandleBackspace implements Backspace on an empty block: the block is
// deleted and focus moves to the end of the previous sibling. The first
// block of a scope has no previous sibling, so nothing happens.
func (s *Session) HandleBackspace(blockID string) (focusID string, ok bool) {
	b, found := s.doc.Get(blockID)
	if !found || b.Content != "" {
		return "", false
	}
	siblings := s.doc.Siblings(b.ParentID)
	idx := -1
	for i, sib := range siblings {
		if sib.ID == blockID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return "", false
	}
	prev := siblings[idx-1]
	s.doc.Delete(blockID)
	delete(s.fragments, blockID)
	delete(s.savers, blockID)
	s.focus(prev.ID)
	return prev.ID, true
}

// HandleArrow moves focus to the adjacent sibling when the caret sits at
// the text boundary. No-op at the first/last block.
func (s *Session) HandleArrow(blockID string, dir Direction, atBoundary bool) (focusID string, ok bool) {
	if !atBoundary {
		return "", false
	}
	b, found := s.doc.Get(blockID)
	if !found {
		return "", false
	}
	siblings := s.doc.Siblings(b.ParentID)
	for i, sib := range siblings {
		if sib.ID != blockID {
			continue
		}
		switch dir {
		case DirUp:
			if i == 0 {
				return "", false
			}
			s.focus(siblings[i-1].ID)
			return siblings[i-1].ID, true
		case DirDown:
			if i == len(siblings)-1 {
				return "", false
			}
			s.focus(siblings[i+1].ID)
			return siblings[i+1].ID, true
		}
	}
	return "", false
}

// HandleSpace runs on every space keypress. A paragraph whose entire text
// before the cursor is a block trigger converts in place (one-way, the
// trigger text is cleared); otherwise the text before the cursor is
// checked for a trailing inline markdown pattern. In both cases the
// triggering space is consumed.
func (s *Session) HandleSpace(blockID string, cursor int) SpaceResult {
	b, ok := s.doc.Get(blockID)
	if !ok {
		return SpaceResult{}
	}

	if b.Type == domain.BlockTypeParagraph && cursor == len([]rune(b.Content)) {
		if t, ok := blocktype.FromTrigger(strings.TrimSpace(b.Content)); ok {
			empty := ""
			s.doc.Stage(blockID, Patch{Content: &empty})
			s.doc.Commit(blockID)
			s.doc.Convert(blockID, t)
			delete(s.fragments, blockID)
			return SpaceResult{Handled: true, ConvertedTo: t}
		}
	}

	frag := s.Fragment(blockID)
	r, ok := inline.CheckInlineMarkdown(b.Content, cursor)
	if !ok {
		return SpaceResult{}
	}
	r.Apply(frag)
	plain := frag.PlainText()
	s.doc.Stage(blockID, Patch{Content: &plain})
	s.doc.Commit(blockID)
	return SpaceResult{Handled: true, Inline: true, Replacement: r}
}

// HandleSlash opens the block menu when typed on an empty block.
func (s *Session) HandleSlash(blockID string) bool {
	b, ok := s.doc.Get(blockID)
	if !ok || b.Content != "" {
		return false
	}
	s.menu.Open(blockID)
	return true
}

// ApplyFormat applies a styling format over the context's selection.
func (s *Session) ApplyFormat(ctx domain.EditingContext, kind inline.Format) bool {
	frag := s.Fragment(ctx.ActiveBlockID)
	if frag == nil {
		return false
	}
	return inline.ApplyFormat(frag, ctx.Selection, kind)
}

// ApplyLink wraps the context's selection in a sanitized link.
func (s *Session) ApplyLink(ctx domain.EditingContext, rawURL string) bool {
	frag := s.Fragment(ctx.ActiveBlockID)
	if frag == nil {
		return false
	}
	return inline.ApplyLink(frag, ctx.Selection, rawURL)
}

// IsFormatActive reports toolbar toggle state for the context's anchor.
func (s *Session) IsFormatActive(ctx domain.EditingContext, kind inline.Format) bool {
	frag := s.Fragment(ctx.ActiveBlockID)
	if frag == nil {
		return false
	}
	return inline.IsFormatActive(frag, ctx.Selection, kind)
}

// SelectionChanged recomputes the floating toolbar state behind a small
// debounce, so rapid caret movement does not thrash the frontend.
func (s *Session) SelectionChanged(ctx domain.EditingContext) {
	if s.toolbarFn == nil {
		s.toolbarFn = debounce.New(s.toolbarDur)
	}
	s.toolbarFn(func() {
		active := map[string]bool{}
		for _, kind := range []inline.Format{
			inline.FormatBold, inline.FormatItalic, inline.FormatUnderline,
			inline.FormatStrikethrough, inline.FormatCode, inline.FormatHighlight, inline.FormatLink,
		} {
			active[string(kind)] = s.IsFormatActive(ctx, kind)
		}
		s.emitter.Emit(context.Background(), event.SelectionToolbar, active)
	})
}

func (s *Session) focus(blockID string) {
	s.emitter.Emit(context.Background(), event.BlockFocus, map[string]string{"blockId": blockID})
}
