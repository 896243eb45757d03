package events

import "sync"

// DefaultSubscriberBuffer is the channel capacity handed to each subscriber.
const DefaultSubscriberBuffer = 256

// Multi fans one event out to several emitters in order.
type Multi []Emitter

// Emit implements the Emitter interface.
func (m Multi) Emit(evt Event) {
	for _, dst := range m {
		if dst != nil {
			dst.Emit(evt)
		}
	}
}

// Hub broadcasts committed events to live subscribers. Emit never blocks: a
// subscriber whose buffer is full misses the event and the miss is counted.
type Hub struct {
	mu      sync.Mutex
	next    uint64
	subs    map[uint64]chan Event
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel func closes the
// channel and is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Emit implements the Emitter interface.
func (h *Hub) Emit(evt Event) {
	if evt == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped for slow subscribers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
