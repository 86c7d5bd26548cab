package event

import (
	"context"
	"sync"
)

// Event names emitted by the engine. The frontend (or any bridge)
// subscribes to these to refresh its view of the live page.
const (
	BlocksChanged       = "blocks:changed"
	BlockContentUpdated = "block:content-updated"
	BlockFocus          = "block:focus"
	SelectionToolbar    = "selection:toolbar"
	StorageWriteFailed  = "storage:write-failed"
	TaskDue             = "task:due"
	TemplatesReloaded   = "templates:reloaded"
)

// Emitter is an interface for emitting events toward the frontend.
// Services receive this interface instead of a concrete bridge, which
// makes them independently testable with a mock emitter.
type Emitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}

// MockEmitter is a test-friendly Emitter that records all calls. Safe for
// concurrent use: the persistence queue emits from its own goroutine.
type MockEmitter struct {
	mu     sync.Mutex
	events []Emitted
}

// Emitted holds a single recorded emission for test assertions.
type Emitted struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Emitted{Event: event, Data: data})
}

// Events returns a copy of the recorded emissions in order.
func (m *MockEmitter) Events() []Emitted {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Emitted, len(m.events))
	copy(out, m.events)
	return out
}

// Names returns the recorded event names in emission order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = e.Event
	}
	return names
}
