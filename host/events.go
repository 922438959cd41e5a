package host

import (
	"sync"
)

// Event is a host lifecycle notification.
type Event interface {
	isEvent()
}

// VisibleBuffersChanged carries the full set of buffers visible after a change.
type VisibleBuffersChanged struct {
	Buffers []Buffer
}

// TabsClosed reports buffers whose tabs were closed.
type TabsClosed struct {
	IDs []BufferID
}

// BufferClosed reports a single closed buffer.
type BufferClosed struct {
	ID BufferID
}

// BufferChanged reports the full text of a buffer after an edit.
type BufferChanged struct {
	ID   BufferID
	Text string
}

// TerminalOpened reports a newly created terminal.
type TerminalOpened struct {
	Terminal Terminal
}

// TerminalClosed reports a terminal that went away.
type TerminalClosed struct {
	Terminal Terminal
}

func (VisibleBuffersChanged) isEvent() {}
func (TabsClosed) isEvent() {}
func (BufferClosed) isEvent() {}
func (BufferChanged) isEvent() {}
func (TerminalOpened) isEvent() {}
func (TerminalClosed) isEvent() {}

// Source delivers host events to subscribers.
type Source interface {
	Subscribe(fn func(Event)) Disposable
}

// EventBus is a synchronous in-process Source.
// Publish calls every subscriber in subscription order on the caller's goroutine.
type EventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
	order  []int
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]func(Event))}
}

// Subscribe implements Source.
func (b *EventBus) Subscribe(fn func(Event)) Disposable {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	return DisposableFunc(func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, o := range b.order {
			if o == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		return nil
	})
}

// Publish delivers ev to all current subscribers.
func (b *EventBus) Publish(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of subscribers.
func (b *EventBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
