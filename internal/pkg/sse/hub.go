package sse

import (
	"sync"
)

// Event is one server-sent event for a subject (a user on a device).
// The session service publishes "tick" events carrying the formatted
// elapsed working time once per second while a session is open.
type Event struct {
	Name string
	Data interface{}
}

// Hub fans events out to the subscribers of each subject.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a subject and returns the event
// channel plus a cleanup function. The channel is buffered; slow
// consumers drop ticks rather than blocking the publisher.
func (h *Hub) Subscribe(subject string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	if h.subscribers[subject] == nil {
		h.subscribers[subject] = make(map[chan Event]struct{})
	}
	h.subscribers[subject][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[subject], ch)
		close(ch)
		if len(h.subscribers[subject]) == 0 {
			delete(h.subscribers, subject)
		}
	}
	return ch, cleanup
}

// Publish delivers an event to every subscriber of a subject. Full
// channels are skipped; a missed tick is replaced by the next one.
func (h *Hub) Publish(subject string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[subject] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a subject.
func (h *Hub) SubscriberCount(subject string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[subject])
}
