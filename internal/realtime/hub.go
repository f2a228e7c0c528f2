package realtime

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

type subscriber struct {
	userID string
	ch     chan Event
}

// Hub tracks connected subscribers and their per-user delivery groups. A
// subscriber is bound to one user id for its whole lifetime; the delivery
// group for a user is simply the set of subscribers sharing that id.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]*subscriber),
	}
}

// Subscribe registers a subscriber for userID and returns its id and the
// event channel. The channel is closed by Unsubscribe.
func (h *Hub) Subscribe(userID string, bufSize int) (string, <-chan Event) {
	id := ulid.Make().String()
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Event, bufSize),
	}
	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()
	return id, sub.ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	if sub, ok := h.subs[id]; ok {
		close(sub.ch)
		delete(h.subs, id)
	}
	h.mu.Unlock()
}

// Broadcast delivers the event to every subscriber. The send never
// blocks: a subscriber with a full buffer loses the event.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.subs) == 0 {
		slog.Debug("no connections, dropping event", "event", event.Type)
		return
	}
	for _, sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

// Publish delivers the event only to subscribers in the user's delivery
// group. An empty group drops the event with a diagnostic log.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := false
	for _, sub := range h.subs {
		if sub.userID != userID {
			continue
		}
		delivered = true
		select {
		case sub.ch <- event:
		default:
		}
	}
	if !delivered {
		slog.Debug("empty delivery group, dropping event", "user_id", userID, "event", event.Type)
	}
}
