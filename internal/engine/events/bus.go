// Package events distributes crawl progress notifications to subscribers.
package events

import (
	"context"
	"sync"
)

// Event reports one completed URL, success or failure.
type Event struct {
	// URL that finished.
	URL string
	// Items accepted from the page after deduplication.
	Items int
	// Duplicates rejected from the page.
	Duplicates int
	// Err is non-nil when the fetch or parse failed.
	Err error
}

// Handler consumes progress events.
type Handler interface {
	HandleURLDone(ctx context.Context, evt Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event)

// HandleURLDone calls the function.
func (f HandlerFunc) HandleURLDone(ctx context.Context, evt Event) {
	f(ctx, evt)
}

// Bus fans events out to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make([]Handler, 0)}
}

// Subscribe adds a handler to the bus.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// PublishURLDone delivers an event to all handlers.
// Thread-safe: dispatches against a snapshot of the handler list so a
// handler may subscribe more handlers without deadlocking.
func (b *Bus) PublishURLDone(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler.HandleURLDone(ctx, evt)
	}
}

// HandlerCount returns the number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
