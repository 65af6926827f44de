package backend

import (
	"sync"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Hub fans session events out to subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(models.SessionEvent)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(models.SessionEvent))}
}

// Subscribe registers fn. The returned func removes it and is safe to call more than once.
func (h *Hub) Subscribe(fn func(models.SessionEvent)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber. Subscribers must not block.
func (h *Hub) Publish(ev models.SessionEvent) {
	h.mu.Lock()
	fns := make([]func(models.SessionEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len is the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
