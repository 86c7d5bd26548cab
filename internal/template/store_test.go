package template_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
	"blockpad/internal/event"
	"blockpad/internal/storage"
	"blockpad/internal/template"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestDoc(t *testing.T) *editor.Document {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "template.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	doc := editor.NewDocument(storage.NewBlockStore(db), &event.MockEmitter{})
	t.Cleanup(doc.Close)
	require.NoError(t, doc.Load("p1"))
	return doc
}

func TestStore_ListSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "weekly.md", "# Weekly review\n\n- [ ] wins\n- [ ] blockers\n")
	writeTemplate(t, dir, "daily.md", "# Daily log\n")
	writeTemplate(t, dir, "notes.txt", "not a template")

	store, err := template.NewStore(dir, &event.MockEmitter{})
	require.NoError(t, err)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "daily", list[0].Name)
	assert.Equal(t, "weekly", list[1].Name)
	assert.Len(t, list[1].Blocks, 3)
}

func TestStore_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	store, err := template.NewStore(dir, &event.MockEmitter{})
	require.NoError(t, err)
	assert.Empty(t, store.List())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_ApplyAppendsBlocks(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "standup.md", "# Standup\n\n- [ ] yesterday\n- [ ] today\n")

	store, err := template.NewStore(dir, &event.MockEmitter{})
	require.NoError(t, err)

	doc := newTestDoc(t)
	doc.Create(domain.BlockTypeParagraph, "already here", "", nil)

	require.NoError(t, store.Apply("standup", doc))

	siblings := doc.Siblings("")
	require.Len(t, siblings, 4)
	assert.Equal(t, "already here", siblings[0].Content)
	assert.Equal(t, domain.BlockTypeHeading1, siblings[1].Type)
	assert.Equal(t, domain.BlockTypeTodo, siblings[2].Type)
	assert.Equal(t, false, siblings[2].Properties["checked"])
}

func TestStore_ApplyUnknownName(t *testing.T) {
	store, err := template.NewStore(t.TempDir(), &event.MockEmitter{})
	require.NoError(t, err)

	doc := newTestDoc(t)
	assert.Error(t, store.Apply("nope", doc))
}

func TestStore_ReloadPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := template.NewStore(dir, &event.MockEmitter{})
	require.NoError(t, err)
	assert.Empty(t, store.List())

	writeTemplate(t, dir, "retro.md", "# Retro\n")
	require.NoError(t, store.Reload())

	tpl, ok := store.Get("retro")
	require.True(t, ok)
	assert.Equal(t, "retro", tpl.Name)
	require.Len(t, tpl.Blocks, 1)
	assert.Equal(t, domain.BlockTypeHeading1, tpl.Blocks[0].Type)
}

func TestStore_WatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	emitter := &event.MockEmitter{}

	store, err := template.NewStore(dir, emitter)
	require.NoError(t, err)
	require.NoError(t, store.Watch(context.Background()))
	t.Cleanup(store.Close)

	writeTemplate(t, dir, "fresh.md", "# Fresh\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := store.Get("fresh"); ok {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	_, ok := store.Get("fresh")
	require.True(t, ok, "watcher never reloaded the store")

	names := emitter.Names()
	require.NotEmpty(t, names)
	assert.Contains(t, names, event.TemplatesReloaded)
}
