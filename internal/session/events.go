package session

import (
	"sync"
	"time"
)

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
	EventExpired   EventKind = "expired"
)

type Event struct {
	Kind      EventKind `json:"kind"`
	UserID    uint      `json:"user_id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

type hub struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]func(Event)
}

func newHub() *hub {
	return &hub{subscribers: make(map[uint64]func(Event))}
}

func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}
}

// publish calls subscribers outside the lock so a callback may unsubscribe itself.
func (h *hub) publish(event Event) {
	h.mu.Lock()
	callbacks := make([]func(Event), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		callbacks = append(callbacks, fn)
	}
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(event)
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
