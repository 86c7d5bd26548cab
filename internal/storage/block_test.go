package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpad/internal/domain"
	"blockpad/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "blockpad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBlockStore_PutIsUpsert(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewBlockStore(db)

	b := &domain.Block{
		ID:         "b1",
		PageID:     "p1",
		Type:       domain.BlockTypeParagraph,
		Content:    "hello",
		Properties: domain.Properties{},
	}
	require.NoError(t, store.Put(b))

	b.Content = "hello again"
	b.Type = domain.BlockTypeHeading2
	require.NoError(t, store.Put(b))

	got, err := store.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, "hello again", got.Content)
	assert.Equal(t, domain.BlockTypeHeading2, got.Type)

	all, err := store.GetAllByPageID("p1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBlockStore_PropertiesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewBlockStore(db)

	require.NoError(t, store.Put(&domain.Block{
		ID:     "b1",
		PageID: "p1",
		Type:   domain.BlockTypeTodo,
		Properties: domain.Properties{
			"checked": true,
			"note":    "later",
		},
	}))

	got, err := store.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, true, got.Properties["checked"])
	assert.Equal(t, "later", got.Properties["note"])
}

func TestBlockStore_GetAllByPageID_SortedByOrder(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewBlockStore(db)

	for i, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Put(&domain.Block{
			ID:     id,
			PageID: "p1",
			Type:   domain.BlockTypeParagraph,
			Order:  2 - i, // c=2, a=1, b=0
		}))
	}

	all, err := store.GetAllByPageID("p1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestBlockStore_GetAllByParentID(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewBlockStore(db)

	require.NoError(t, store.Put(&domain.Block{ID: "parent", PageID: "p1", Type: domain.BlockTypeToggle}))
	require.NoError(t, store.Put(&domain.Block{ID: "child1", PageID: "p1", ParentID: "parent", Order: 0}))
	require.NoError(t, store.Put(&domain.Block{ID: "child2", PageID: "p1", ParentID: "parent", Order: 1}))

	children, err := store.GetAllByParentID("parent")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "child1", children[0].ID)
}

func TestBlockStore_Delete(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewBlockStore(db)

	require.NoError(t, store.Put(&domain.Block{ID: "b1", PageID: "p1"}))
	require.NoError(t, store.Delete("b1"))

	_, err := store.Get("b1")
	assert.Error(t, err)

	// Deleting an unknown id is not an error.
	assert.NoError(t, store.Delete("nope"))
}

func TestPageStore_DeleteCascadesBlocks(t *testing.T) {
	db := openTestDB(t)
	blocks := storage.NewBlockStore(db)
	pages := storage.NewPageStore(db, blocks)

	require.NoError(t, pages.CreatePage(&domain.Page{ID: "p1", Title: "Notes"}))
	require.NoError(t, blocks.Put(&domain.Block{ID: "b1", PageID: "p1"}))
	require.NoError(t, blocks.Put(&domain.Block{ID: "b2", PageID: "p1"}))

	require.NoError(t, pages.DeletePage("p1"))

	all, err := blocks.GetAllByPageID("p1")
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = pages.GetPage("p1")
	assert.Error(t, err)
}

func TestTaskStore_CRUDAndZeroDue(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewTaskStore(db)

	due := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.CreateTask(&domain.Task{ID: "t1", Title: "write tests", Due: due, Remind: true}))
	require.NoError(t, store.CreateTask(&domain.Task{ID: "t2", Title: "undated"}))

	got, err := store.GetTask("t1")
	require.NoError(t, err)
	assert.True(t, got.Remind)
	assert.False(t, got.Due.IsZero())

	undated, err := store.GetTask("t2")
	require.NoError(t, err)
	assert.True(t, undated.Due.IsZero())

	got.Done = true
	require.NoError(t, store.UpdateTask(got))
	got, err = store.GetTask("t1")
	require.NoError(t, err)
	assert.True(t, got.Done)

	require.NoError(t, store.DeleteTask("t1"))
	_, err = store.GetTask("t1")
	assert.Error(t, err)
}
