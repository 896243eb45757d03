package events

import "weidex/core/types"

// Event represents a structured state change emitted by the exchange.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Buffer collects events until the enclosing call settles. Flush forwards
// them in emission order; Reset drops them.
type Buffer struct {
	pending []Event
}

// Emit implements the Emitter interface.
func (b *Buffer) Emit(evt Event) {
	if evt == nil {
		return
	}
	b.pending = append(b.pending, evt)
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int { return len(b.pending) }

// Mark returns the current buffer position for a later Truncate.
func (b *Buffer) Mark() int { return len(b.pending) }

// Truncate drops every event buffered after mark.
func (b *Buffer) Truncate(mark int) {
	if mark < 0 || mark > len(b.pending) {
		return
	}
	b.pending = b.pending[:mark]
}

// Flush forwards the buffered events to dst and empties the buffer.
func (b *Buffer) Flush(dst Emitter) []Event {
	flushed := b.pending
	b.pending = nil
	if dst == nil {
		return flushed
	}
	for _, evt := range flushed {
		dst.Emit(evt)
	}
	return flushed
}

// Reset drops every buffered event.
func (b *Buffer) Reset() { b.pending = nil }
