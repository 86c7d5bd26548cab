package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpad/internal/domain"
	"blockpad/internal/event"
	"blockpad/internal/inline"
)

func newTestSession(t *testing.T) (*Session, *memStore, *event.MockEmitter) {
	t.Helper()
	store := newMemStore()
	emitter := &event.MockEmitter{}
	doc := NewDocument(store, emitter)
	t.Cleanup(doc.Close)
	require.NoError(t, doc.Load("p1"))
	return NewSession(doc, emitter), store, emitter
}

// A first paragraph "A", Enter at its end
// creates a focused empty paragraph after it, an immediate Backspace
// removes it again and focus returns to "A".
func TestSession_EnterThenBackspaceScenario(t *testing.T) {
	s, _, emitter := newTestSession(t)
	doc := s.Document()
	assert.True(t, doc.Empty(), "zero blocks is the placeholder state")

	a, err := doc.Create(domain.BlockTypeParagraph, "A", "", nil)
	require.NoError(t, err)

	nb, ok := s.HandleEnter(a.ID, true)
	require.True(t, ok)
	assert.Equal(t, domain.BlockTypeParagraph, nb.Type)
	assert.Equal(t, 1, nb.Order)
	assert.Empty(t, nb.Content)
	assert.Contains(t, emitter.Names(), event.BlockFocus)

	focusID, ok := s.HandleBackspace(nb.ID)
	require.True(t, ok)
	assert.Equal(t, a.ID, focusID)
	assert.Equal(t, 1, doc.Len())
	assertSequentialOrders(t, doc, "")
}

func TestSession_EnterMidTextIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t)
	a, _ := s.Document().Create(domain.BlockTypeParagraph, "text", "", nil)

	_, ok := s.HandleEnter(a.ID, false)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Document().Len())
}

func TestSession_BackspaceNonEmptyOrFirstBlock(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	a, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)
	b, _ := doc.Create(domain.BlockTypeParagraph, "keep me", "", nil)

	_, ok := s.HandleBackspace(a.ID) // first block, no previous sibling
	assert.False(t, ok)
	_, ok = s.HandleBackspace(b.ID) // non-empty
	assert.False(t, ok)
	assert.Equal(t, 2, doc.Len())
}

func TestSession_ArrowNavigation(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	a, _ := doc.Create(domain.BlockTypeParagraph, "A", "", nil)
	b, _ := doc.Create(domain.BlockTypeParagraph, "B", "", nil)

	focus, ok := s.HandleArrow(a.ID, DirDown, true)
	require.True(t, ok)
	assert.Equal(t, b.ID, focus)

	focus, ok = s.HandleArrow(b.ID, DirUp, true)
	require.True(t, ok)
	assert.Equal(t, a.ID, focus)

	_, ok = s.HandleArrow(a.ID, DirUp, true)
	assert.False(t, ok, "no-op at the first block")
	_, ok = s.HandleArrow(b.ID, DirDown, true)
	assert.False(t, ok, "no-op at the last block")
	_, ok = s.HandleArrow(a.ID, DirDown, false)
	assert.False(t, ok, "caret not at boundary")
}

// Typing "## " at the start of an empty paragraph converts the block to
// heading2 and clears the trigger text without creating a new block.
func TestSession_BlockTriggerConversion(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)

	content := "##"
	doc.Stage(b.ID, Patch{Content: &content})

	res := s.HandleSpace(b.ID, 2)
	require.True(t, res.Handled)
	assert.Equal(t, domain.BlockTypeHeading2, res.ConvertedTo)

	got, _ := doc.Get(b.ID)
	assert.Equal(t, domain.BlockTypeHeading2, got.Type)
	assert.Empty(t, got.Content)
	assert.Equal(t, 1, doc.Len())
}

func TestSession_BlockTriggerIsOneWay(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)

	content := "#"
	doc.Stage(b.ID, Patch{Content: &content})
	res := s.HandleSpace(b.ID, 1)
	require.True(t, res.Handled)

	// A trigger typed into the converted block does nothing: reverting
	// needs an explicit convert.
	content = "#"
	doc.Stage(b.ID, Patch{Content: &content})
	res = s.HandleSpace(b.ID, 1)
	assert.False(t, res.Handled)
	got, _ := doc.Get(b.ID)
	assert.Equal(t, domain.BlockTypeHeading1, got.Type)
}

// Typing "**hello** " bolds "hello", removes the delimiters and puts the
// cursor immediately after the inserted element.
func TestSession_InlineMarkdownOnSpace(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)

	content := "say **hello**"
	doc.Stage(b.ID, Patch{Content: &content})

	res := s.HandleSpace(b.ID, 13)
	require.True(t, res.Handled)
	assert.True(t, res.Inline)
	assert.Equal(t, 9, res.Replacement.CursorAfter)

	got, _ := doc.Get(b.ID)
	assert.Equal(t, "say hello", got.Content, "delimiters removed, space consumed")
	frag := s.Fragment(b.ID)
	assert.Equal(t, inline.Span{Tag: inline.TagStrong, Text: "hello"}, frag.Spans[1])
}

func TestSession_PlainSpaceNotHandled(t *testing.T) {
	s, _, _ := newTestSession(t)
	b, _ := s.Document().Create(domain.BlockTypeParagraph, "", "", nil)

	content := "plain words"
	s.Document().Stage(b.ID, Patch{Content: &content})
	res := s.HandleSpace(b.ID, 11)
	assert.False(t, res.Handled, "caller inserts the literal space")
}

func TestSession_SlashOpensMenuOnlyOnEmptyBlock(t *testing.T) {
	s, _, _ := newTestSession(t)
	doc := s.Document()
	empty, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)
	full, _ := doc.Create(domain.BlockTypeParagraph, "words", "", nil)

	assert.False(t, s.HandleSlash(full.ID))
	assert.False(t, s.Menu().IsOpen())
	assert.True(t, s.HandleSlash(empty.ID))
	assert.True(t, s.Menu().IsOpen())
}

func TestSession_DebouncedContentSave(t *testing.T) {
	s, store, _ := newTestSession(t)
	s.saveDelay = 10 * time.Millisecond
	doc := s.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)
	doc.Flush()

	s.SetContent(b.ID, "d")
	s.SetContent(b.ID, "dr")
	s.SetContent(b.ID, "draft")

	// Memory is current immediately.
	got, _ := doc.Get(b.ID)
	assert.Equal(t, "draft", got.Content)

	time.Sleep(100 * time.Millisecond)
	doc.Flush()
	persisted, err := store.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", persisted.Content, "trailing edge wins")
}

func TestSession_DebouncedSaveAfterDeleteIsGuarded(t *testing.T) {
	s, store, _ := newTestSession(t)
	s.saveDelay = 10 * time.Millisecond
	doc := s.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)
	doc.Flush()

	s.SetContent(b.ID, "about to vanish")
	doc.Delete(b.ID)

	time.Sleep(100 * time.Millisecond)
	doc.Flush()
	_, err := store.Get(b.ID)
	assert.Error(t, err, "late debounced save must not resurrect the block")
}

func TestSession_FormatterThroughEditingContext(t *testing.T) {
	s, _, _ := newTestSession(t)
	b, _ := s.Document().Create(domain.BlockTypeParagraph, "hello world", "", nil)

	ctx := domain.EditingContext{
		PageID:        "p1",
		ActiveBlockID: b.ID,
		Selection:     domain.SelectionRange{Start: 6, End: 11},
	}
	assert.True(t, s.ApplyFormat(ctx, inline.FormatBold))
	assert.True(t, s.IsFormatActive(domain.EditingContext{
		ActiveBlockID: b.ID,
		Selection:     domain.SelectionRange{Start: 8, End: 8},
	}, inline.FormatBold))

	assert.False(t, s.ApplyLink(ctx, "javascript:alert(1)"))
	assert.True(t, s.ApplyLink(ctx, "https://example.com"))

	// Unknown block: every formatter operation is a no-op.
	ghost := domain.EditingContext{ActiveBlockID: "ghost", Selection: domain.SelectionRange{Start: 0, End: 3}}
	assert.False(t, s.ApplyFormat(ghost, inline.FormatBold))
	assert.False(t, s.IsFormatActive(ghost, inline.FormatBold))
}

func TestSession_SelectionToolbarDebounced(t *testing.T) {
	s, _, emitter := newTestSession(t)
	s.toolbarDur = 10 * time.Millisecond
	b, _ := s.Document().Create(domain.BlockTypeParagraph, "hello", "", nil)

	ctx := domain.EditingContext{ActiveBlockID: b.ID, Selection: domain.SelectionRange{Start: 1, End: 1}}
	s.SelectionChanged(ctx)
	s.SelectionChanged(ctx)
	time.Sleep(100 * time.Millisecond)

	names := emitter.Names()
	count := 0
	for _, n := range names {
		if n == event.SelectionToolbar {
			count++
		}
	}
	assert.Equal(t, 1, count, "rapid selection changes collapse to one update")
}
