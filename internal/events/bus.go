// Package events provides the runtime event bus for Gray Logic Runtime.
//
// The bus fans runtime lifecycle events (device registered/destroyed, unit
// faulted) out to subscribers such as the interconnect bridge and the
// WebSocket hub. Publishing never blocks: a subscriber that falls behind
// loses events rather than stalling the gateway.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
)

// defaultBuffer is the per-subscriber channel capacity when not configured.
const defaultBuffer = 64

// Bus is a broadcast channel for runtime events.
//
// All public methods are thread-safe. Bus satisfies ecs.Emitter so it can
// be passed directly to ecs.WithEmitter.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan ecs.Event
	nextID  int
	buffer  int
	closed  bool
	dropped atomic.Uint64
}

// NewBus creates a bus with the given per-subscriber buffer size.
// A non-positive buffer falls back to the default.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{
		subs:   make(map[int]chan ecs.Event),
		buffer: buffer,
	}
}

// Emit broadcasts an event to all subscribers without blocking. Events to
// full subscriber channels are dropped and counted.
func (b *Bus) Emit(ev ecs.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a new subscriber and returns its channel plus a
// cancel function. The channel is closed on cancel or when the bus closes.
func (b *Bus) Subscribe() (<-chan ecs.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ecs.Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Dropped returns the number of events discarded because a subscriber's
// buffer was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes all subscriber channels. Emit becomes a no-op and further
// Subscribe calls return an already-closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
