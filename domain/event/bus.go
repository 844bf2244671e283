package event

import (
	"context"
	"sync"
)

// Handler consumes one event. Handlers must not block for long; slow work
// belongs in the handler's own goroutines.
type Handler func(ctx context.Context, e Event)

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// UnsubscribeFunc removes a subscription. Safe to call more than once.
type UnsubscribeFunc func()

// Bus is an in-process publish/subscribe bus. By default events are
// dispatched asynchronously, one goroutine per publish. Synchronous mode
// dispatches inline, which makes test assertions deterministic.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Type]map[int]Handler
	all      map[int]Handler
	sync     bool
	wg       sync.WaitGroup
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithSynchronousDispatch makes Publish run handlers inline on the
// caller's goroutine.
func WithSynchronousDispatch() BusOption {
	return func(b *Bus) {
		b.sync = true
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		handlers: make(map[Type]map[int]Handler),
		all:      make(map[int]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t Type, h Handler) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[int]Handler)
	}
	b.handlers[t][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers[t], id)
		})
	}
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.all[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.all, id)
		})
	}
}

// Publish delivers the event to all matching handlers.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[e.EventType()])+len(b.all))
	for _, h := range b.handlers[e.EventType()] {
		handlers = append(handlers, h)
	}
	for _, h := range b.all {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	if b.sync {
		for _, h := range handlers {
			h(ctx, e)
		}
		return
	}

	for _, h := range handlers {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			h(ctx, e)
		}()
	}
}

// Wait blocks until all asynchronously dispatched handlers have returned.
// Used during shutdown.
func (b *Bus) Wait() {
	b.wg.Wait()
}
