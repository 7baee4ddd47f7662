// Package notify carries row-level change notifications from the
// storage layer to subscribers. The payload is only the table name;
// consumers are expected to refetch rather than interpret a delta.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Handler is invoked with the name of the table that changed.
type Handler func(table string)

// Bus is a thread-safe in-process change bus with one topic per table.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler // table -> token -> handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]map[string]Handler)}
}

// Publish notifies every subscriber of table that one of its rows
// changed. Handlers run synchronously on the caller's goroutine.
func (b *Bus) Publish(table string) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.handlers[table]))
	for _, h := range b.handlers[table] {
		targets = append(targets, h)
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(table)
	}
}

// Subscribe registers a handler for changes to table. The returned
// function unsubscribes the handler.
func (b *Bus) Subscribe(table string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := uuid.NewString()
	if b.handlers[table] == nil {
		b.handlers[table] = make(map[string]Handler)
	}
	b.handlers[table][token] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[table], token)
		if len(b.handlers[table]) == 0 {
			delete(b.handlers, table)
		}
	}
}
