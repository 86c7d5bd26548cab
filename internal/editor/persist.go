package editor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"blockpad/internal/domain"
	"blockpad/internal/event"
)

// writeQueue serializes persistence effects behind the in-memory state.
// Mutations are applied optimistically; a failed write is surfaced as a
// storage:write-failed event so the owner can reconcile the record
// instead of trusting the optimistic copy.
type writeQueue struct {
	store   domain.BlockStore
	emitter event.Emitter
	logger  *zap.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	ops    []writeOp
	busy   bool
	closed bool
	done   bool
}

type writeOp struct {
	put      *domain.Block
	deleteID string
}

func newWriteQueue(store domain.BlockStore, emitter event.Emitter, logger *zap.Logger) *writeQueue {
	q := &writeQueue{store: store, emitter: emitter, logger: logger}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Put enqueues an upsert. The block is copied by value at call time, so
// later in-memory edits cannot race the write.
func (q *writeQueue) Put(b domain.Block) {
	q.enqueue(writeOp{put: &b})
}

// Delete enqueues a record deletion.
func (q *writeQueue) Delete(id string) {
	q.enqueue(writeOp{deleteID: id})
}

func (q *writeQueue) enqueue(op writeOp) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.ops = append(q.ops, op)
	q.cond.Broadcast()
}

// Flush blocks until every currently enqueued write has been attempted.
func (q *writeQueue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for (len(q.ops) > 0 || q.busy) && !q.done {
		q.cond.Wait()
	}
}

// Close drains the queue and stops the worker.
func (q *writeQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	for !q.done {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

func (q *writeQueue) run() {
	q.mu.Lock()
	for {
		for len(q.ops) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.ops) == 0 && q.closed {
			q.done = true
			q.cond.Broadcast()
			q.mu.Unlock()
			return
		}
		op := q.ops[0]
		q.ops = q.ops[1:]
		q.busy = true
		q.mu.Unlock()

		q.perform(op)

		q.mu.Lock()
		q.busy = false
		q.cond.Broadcast()
	}
}

func (q *writeQueue) perform(op writeOp) {
	var err error
	var blockID string
	switch {
	case op.put != nil:
		blockID = op.put.ID
		err = q.store.Put(op.put)
	case op.deleteID != "":
		blockID = op.deleteID
		err = q.store.Delete(op.deleteID)
	}
	if err == nil {
		return
	}

	q.logger.Warn("persistence write failed",
		zap.String("blockId", blockID),
		zap.Error(err),
	)
	q.emitter.Emit(context.Background(), event.StorageWriteFailed, map[string]string{
		"blockId": blockID,
		"error":   err.Error(),
	})
}
