package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
	"blockpad/internal/event"
	"blockpad/internal/inline"
	"blockpad/internal/render"
	"blockpad/internal/storage"
)

func newTestSession(t *testing.T) *editor.Session {
	t.Helper()
	db, err := storage.New(t.TempDir() + "/render.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	doc := editor.NewDocument(storage.NewBlockStore(db), &event.MockEmitter{})
	t.Cleanup(doc.Close)
	require.NoError(t, doc.Load("p1"))
	return editor.NewSession(doc, &event.MockEmitter{})
}

func TestRenderer_EmptyPagePlaceholder(t *testing.T) {
	sess := newTestSession(t)
	page := render.NewRenderer(sess).Page()

	assert.Contains(t, page.PlainText(), render.PlaceholderText)
}

func TestRenderer_BlockShapes(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	r := render.NewRenderer(sess)

	h, _ := doc.Create(domain.BlockTypeHeading2, "Title", "", nil)
	assert.Equal(t, "h2", r.Block(h).Tag)

	q, _ := doc.Create(domain.BlockTypeQuote, "wise words", "", nil)
	assert.Equal(t, "blockquote", r.Block(q).Tag)

	d, _ := doc.Create(domain.BlockTypeDivider, "", "", nil)
	assert.Equal(t, "hr", r.Block(d).Tag)

	c, _ := doc.Create(domain.BlockTypeCode, "fmt.Println(42)", "", nil)
	code := r.Block(c).Find("code")
	require.NotNil(t, code)
	assert.Equal(t, "plaintext", code.Attrs["data-language"])
	assert.Equal(t, "fmt.Println(42)", code.PlainText())
}

func TestRenderer_TodoCheckbox(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	r := render.NewRenderer(sess)
	b, _ := doc.Create(domain.BlockTypeTodo, "buy milk", "", nil)

	box := r.Block(b).Find("input")
	require.NotNil(t, box)
	assert.Equal(t, "false", box.Attrs["checked"])

	render.NewBinder(sess).ToggleTodo(b.ID)
	got, _ := doc.Get(b.ID)
	assert.Equal(t, true, got.Properties["checked"])
	box = r.Block(got).Find("input")
	assert.Equal(t, "true", box.Attrs["checked"])
}

func TestRenderer_CollapsedToggleHidesChildren(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	r := render.NewRenderer(sess)

	tog, _ := doc.Create(domain.BlockTypeToggle, "details", "", nil)
	doc.CreateChild(tog.ID, domain.BlockTypeParagraph, "hidden depths")

	open := r.Block(mustGet(t, doc, tog.ID))
	assert.Contains(t, open.PlainText(), "hidden depths")

	render.NewBinder(sess).ToggleCollapse(tog.ID)
	closed := r.Block(mustGet(t, doc, tog.ID))
	assert.NotContains(t, closed.PlainText(), "hidden depths")
	assert.Equal(t, "true", closed.Attrs["data-collapsed"])
}

func TestRenderer_InlineFormattingSpans(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "hello world", "", nil)

	ctx := domain.EditingContext{ActiveBlockID: b.ID, Selection: domain.SelectionRange{Start: 6, End: 11}}
	require.True(t, sess.ApplyFormat(ctx, inline.FormatBold))

	n := render.NewRenderer(sess).Block(mustGet(t, doc, b.ID))
	strong := n.Find("strong")
	require.NotNil(t, strong)
	assert.Equal(t, "world", strong.PlainText())
}

func TestRenderer_LinkGetsSafeCrossOriginAttrs(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	b, _ := doc.Create(domain.BlockTypeParagraph, "visit docs", "", nil)

	ctx := domain.EditingContext{ActiveBlockID: b.ID, Selection: domain.SelectionRange{Start: 6, End: 10}}
	require.True(t, sess.ApplyLink(ctx, "https://example.com"))

	a := render.NewRenderer(sess).Block(mustGet(t, doc, b.ID)).Find("a")
	require.NotNil(t, a)
	assert.Equal(t, "https://example.com", a.Attrs["href"])
	assert.Equal(t, "_blank", a.Attrs["target"])
	assert.Equal(t, "noopener noreferrer", a.Attrs["rel"])
}

func TestRenderer_ImageSanitization(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	r := render.NewRenderer(sess)

	b, _ := doc.Create(domain.BlockTypeImage, "", "", domain.Properties{
		"src": "javascript:alert(1)", "caption": "nope",
	})
	assert.Nil(t, r.Block(b).Find("img"), "unsafe src renders the empty state")

	doc.Update(b.ID, editor.Patch{Properties: domain.Properties{"src": "data:image/png;base64,AAAA"}})
	img := r.Block(mustGet(t, doc, b.ID)).Find("img")
	require.NotNil(t, img)
	assert.Equal(t, "data:image/png;base64,AAAA", img.Attrs["src"])
}

func TestBinder_UploadImage(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	binder := render.NewBinder(sess)
	b, _ := doc.Create(domain.BlockTypeImage, "", "", nil)

	require.True(t, binder.UploadImage(b.ID, "photo.jpg", []byte{0xff, 0xd8, 0xff}))
	got, _ := doc.Get(b.ID)
	src, _ := got.Properties["src"].(string)
	assert.Contains(t, src, "data:image/jpeg;base64,")

	assert.False(t, binder.UploadImage(b.ID, "sneaky.svg", []byte("<svg/>")), "svg is refused")
}

func TestBinder_HandleDrop(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	binder := render.NewBinder(sess)

	a, _ := doc.Create(domain.BlockTypeParagraph, "A", "", nil)
	b, _ := doc.Create(domain.BlockTypeParagraph, "B", "", nil)

	require.NoError(t, binder.HandleDrop([]string{b.ID, a.ID}))
	siblings := doc.Siblings("")
	assert.Equal(t, b.ID, siblings[0].ID)

	assert.ErrorIs(t, binder.HandleDrop([]string{a.ID}), editor.ErrOrderMismatch)
}

func TestBinder_SetCodeLanguage(t *testing.T) {
	sess := newTestSession(t)
	doc := sess.Document()
	binder := render.NewBinder(sess)
	b, _ := doc.Create(domain.BlockTypeCode, "SELECT 1", "", nil)

	binder.SetCodeLanguage(b.ID, "sql")
	got, _ := doc.Get(b.ID)
	assert.Equal(t, "sql", got.Properties["language"])

	// Wrong type is ignored.
	p, _ := doc.Create(domain.BlockTypeParagraph, "", "", nil)
	binder.SetCodeLanguage(p.ID, "sql")
	got, _ = doc.Get(p.ID)
	assert.Nil(t, got.Properties["language"])
}

func mustGet(t *testing.T, doc *editor.Document, id string) *domain.Block {
	t.Helper()
	b, ok := doc.Get(id)
	require.True(t, ok)
	return b
}
