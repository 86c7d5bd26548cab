// Package editor owns the block collection of the currently open page and
// every structural mutation on it: create, update, convert, reorder,
// cascade delete, plus the editing-session rules and the slash menu.
//
// Mutations apply to the in-memory collection synchronously and are
// persisted through an effect queue, so callers never wait on storage.
package editor

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blockpad/internal/blocktype"
	"blockpad/internal/domain"
	"blockpad/internal/event"
	"blockpad/internal/log"
)

var (
	// ErrOrderMismatch is returned by Reorder when the id list is not an
	// exact permutation of the page's current block ids.
	ErrOrderMismatch = errors.New("editor: reorder ids do not match page blocks")

	// ErrNoPage is returned by operations invoked before Load.
	ErrNoPage = errors.New("editor: no page loaded")
)

// Patch is a partial block update. Nil fields are left untouched;
// Properties entries are merged into the existing map.
type Patch struct {
	Content    *string
	Properties domain.Properties
}

// Document is the live block collection for exactly one open page.
type Document struct {
	store   domain.BlockStore
	queue   *writeQueue
	emitter event.Emitter
	logger  *zap.Logger

	pageID string
	byID   map[string]*domain.Block
}

// NewDocument creates a Document and starts its persistence queue.
func NewDocument(store domain.BlockStore, emitter event.Emitter) *Document {
	d := &Document{
		store:   store,
		emitter: emitter,
		logger:  log.Get(),
		byID:    map[string]*domain.Block{},
	}
	d.queue = newWriteQueue(store, emitter, d.logger)
	return d
}

// Close drains and stops the persistence queue.
func (d *Document) Close() {
	d.queue.Close()
}

// Flush blocks until every enqueued write has been attempted.
func (d *Document) Flush() {
	d.queue.Flush()
}

// PageID returns the id of the loaded page, "" before Load.
func (d *Document) PageID() string {
	return d.pageID
}

// Load replaces the in-memory collection with the persisted blocks of
// pageID. A page with zero blocks is a valid, renderable empty state.
func (d *Document) Load(pageID string) error {
	blocks, err := d.store.GetAllByPageID(pageID)
	if err != nil {
		return err
	}
	d.pageID = pageID
	d.byID = make(map[string]*domain.Block, len(blocks))
	for i := range blocks {
		b := blocks[i]
		d.byID[b.ID] = &b
	}
	d.emitBlocksChanged()
	return nil
}

// Get returns the in-memory block for id.
func (d *Document) Get(id string) (*domain.Block, bool) {
	b, ok := d.byID[id]
	return b, ok
}

// Len returns the number of blocks on the loaded page.
func (d *Document) Len() int {
	return len(d.byID)
}

// Empty reports whether the loaded page has no blocks.
func (d *Document) Empty() bool {
	return len(d.byID) == 0
}

// Blocks returns every block of the page, sorted by (parent, order).
func (d *Document) Blocks() []domain.Block {
	out := make([]domain.Block, 0, len(d.byID))
	for _, b := range d.byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParentID != out[j].ParentID {
			return out[i].ParentID < out[j].ParentID
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// Siblings returns the blocks sharing parentID, sorted by order.
// parentID "" selects the top-level blocks.
func (d *Document) Siblings(parentID string) []*domain.Block {
	var out []*domain.Block
	for _, b := range d.byID {
		if b.ParentID == parentID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Children returns the direct children of a block, sorted by order.
func (d *Document) Children(id string) []*domain.Block {
	return d.Siblings(id)
}

// Create inserts a new top-level block. With afterID == "" the block is
// appended; otherwise it becomes the next sibling of the reference block
// (inheriting its parent) and every trailing sibling is renumbered, so
// sibling orders always stay a valid 0..n-1 sequence.
func (d *Document) Create(t domain.BlockType, content, afterID string, props domain.Properties) (*domain.Block, error) {
	return d.create(t, content, afterID, "", props)
}

// CreateChild inserts a new block as the last child of parentID.
// Used for toggle contents.
func (d *Document) CreateChild(parentID string, t domain.BlockType, content string) (*domain.Block, error) {
	return d.create(t, content, "", parentID, nil)
}

func (d *Document) create(t domain.BlockType, content, afterID, parentID string, props domain.Properties) (*domain.Block, error) {
	if d.pageID == "" {
		return nil, ErrNoPage
	}
	if !blocktype.Valid(t) {
		t = domain.BlockTypeParagraph
	}

	order := 0
	if afterID != "" {
		ref, ok := d.byID[afterID]
		if !ok {
			d.logger.Warn("create: unknown reference block", zap.String("afterId", afterID))
			afterID = ""
		} else {
			parentID = ref.ParentID
			order = ref.Order + 1
			// Shift trailing siblings down one slot.
			for _, sib := range d.Siblings(parentID) {
				if sib.Order >= order {
					sib.Order++
					sib.UpdatedAt = time.Now()
					d.queue.Put(*sib)
				}
			}
		}
	}
	if afterID == "" {
		order = len(d.Siblings(parentID))
	}

	if props == nil {
		props = blocktype.DefaultProperties(t)
	}
	now := time.Now()
	b := &domain.Block{
		ID:         uuid.New().String(),
		PageID:     d.pageID,
		ParentID:   parentID,
		Type:       t,
		Content:    content,
		Properties: props,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	d.byID[b.ID] = b
	d.queue.Put(*b)
	d.emitBlocksChanged()
	return b, nil
}

// Update merges a patch into a block and persists it. An unknown id is a
// silent no-op: a debounced save may land after its block was deleted.
func (d *Document) Update(id string, patch Patch) {
	if !d.Stage(id, patch) {
		return
	}
	d.Commit(id)
}

// Stage applies a patch to the in-memory record only. The render layer
// stages on every keystroke and commits behind a debounce.
func (d *Document) Stage(id string, patch Patch) bool {
	b, ok := d.byID[id]
	if !ok {
		d.logger.Warn("update: unknown block", zap.String("id", id))
		return false
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if len(patch.Properties) > 0 {
		if b.Properties == nil {
			b.Properties = domain.Properties{}
		}
		for k, v := range patch.Properties {
			b.Properties[k] = v
		}
	}
	b.UpdatedAt = time.Now()
	d.emitter.Emit(context.Background(), event.BlockContentUpdated, map[string]string{
		"blockId": id,
		"pageId":  d.pageID,
	})
	return true
}

// Commit enqueues the persistence write for a staged block. A missing id
// is a no-op, guarding debounced saves that outlive their block.
func (d *Document) Commit(id string) {
	b, ok := d.byID[id]
	if !ok {
		return
	}
	d.queue.Put(*b)
}

// Delete removes a block and all of its descendants, then renumbers the
// remaining siblings. Traversal is an explicit stack, not recursion, so
// pathological nesting depth cannot blow the call stack.
func (d *Document) Delete(id string) {
	b, ok := d.byID[id]
	if !ok {
		d.logger.Warn("delete: unknown block", zap.String("id", id))
		return
	}
	parentID := b.ParentID

	// Collect the subtree, then delete children before parents.
	stack := []string{id}
	var doomed []string
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		doomed = append(doomed, cur)
		for _, child := range d.Children(cur) {
			stack = append(stack, child.ID)
		}
	}
	for i := len(doomed) - 1; i >= 0; i-- {
		delete(d.byID, doomed[i])
		d.queue.Delete(doomed[i])
	}

	d.renumber(parentID)
	d.emitBlocksChanged()
}

// Convert changes a block's type in place, preserving id, page, order and
// content, and resetting the type-specific properties to the target
// type's defaults. Unknown ids and unknown types abort silently.
func (d *Document) Convert(id string, newType domain.BlockType) {
	b, ok := d.byID[id]
	if !ok {
		d.logger.Warn("convert: unknown block", zap.String("id", id))
		return
	}
	if !blocktype.Valid(newType) {
		d.logger.Warn("convert: unknown type", zap.String("type", string(newType)))
		return
	}
	b.Type = newType
	b.Properties = blocktype.DefaultProperties(newType)
	b.UpdatedAt = time.Now()
	d.queue.Put(*b)
	d.emitBlocksChanged()
	// Focus returns to the converted block's re-rendered form.
	d.emitter.Emit(context.Background(), event.BlockFocus, map[string]string{"blockId": id})
}

// Reorder assigns new orders from the given presentation-order id list.
// The list must be an exact permutation of the page's block ids; anything
// else is rejected before any state changes.
func (d *Document) Reorder(orderedIDs []string) error {
	if d.pageID == "" {
		return ErrNoPage
	}
	if len(orderedIDs) != len(d.byID) {
		return ErrOrderMismatch
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := d.byID[id]; !ok || seen[id] {
			return ErrOrderMismatch
		}
		seen[id] = true
	}

	// Presentation order is a flattened tree; orders are assigned per
	// parent scope so each sibling set maps 1:1 onto 0..n-1.
	next := map[string]int{}
	for _, id := range orderedIDs {
		b := d.byID[id]
		n := next[b.ParentID]
		next[b.ParentID] = n + 1
		if b.Order != n {
			b.Order = n
			b.UpdatedAt = time.Now()
			d.queue.Put(*b)
		}
	}
	d.emitBlocksChanged()
	return nil
}

// Reconcile replaces the optimistic in-memory copy of a block with the
// persisted record. Called by the owner after a storage:write-failed
// event; if storage no longer has the record the memory copy is dropped.
func (d *Document) Reconcile(id string) {
	if _, ok := d.byID[id]; !ok {
		return
	}
	fresh, err := d.store.Get(id)
	if err != nil {
		delete(d.byID, id)
		d.emitBlocksChanged()
		return
	}
	d.byID[id] = fresh
}

// renumber reassigns 0..n-1 orders within one sibling scope.
func (d *Document) renumber(parentID string) {
	for i, sib := range d.Siblings(parentID) {
		if sib.Order != i {
			sib.Order = i
			sib.UpdatedAt = time.Now()
			d.queue.Put(*sib)
		}
	}
}

func (d *Document) emitBlocksChanged() {
	d.emitter.Emit(context.Background(), event.BlocksChanged, map[string]string{"pageId": d.pageID})
}
