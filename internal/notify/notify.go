package notify

import "sync"

type Kind string

const (
	KindItemAdded        Kind = "item_added"
	KindItemRemoved      Kind = "item_removed"
	KindQuantityUpdated  Kind = "quantity_updated"
	KindNoteUpdated      Kind = "note_updated"
	KindCartCleared      Kind = "cart_cleared"
	KindOrderPlaced      Kind = "order_placed"
	KindOrderFailed      Kind = "order_failed"
	KindOrdersLoadFailed Kind = "orders_load_failed"
)

// Notification is a user-visible advisory message (toast material). It is a
// side effect, not part of the data contract.
type Notification struct {
	Kind    Kind
	Message string
}

// Hub fans notifications out to subscribed listeners. Listeners run
// synchronously in subscription order, after the mutation that triggered
// them has committed.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Notification)
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]func(Notification))}
}

// Subscribe registers a listener and returns its unsubscribe handle.
func (h *Hub) Subscribe(fn func(Notification)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *Hub) Publish(n Notification) {
	h.mu.Lock()
	fns := make([]func(Notification), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
