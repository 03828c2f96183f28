package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tastybites/ordering/internal/cart/domain"
	"github.com/tastybites/ordering/internal/cart/slot"
	"github.com/tastybites/ordering/internal/notify"
)

// Store owns the line items of one cart. Lines keep insertion order and hold
// at most one entry per item id. Every mutation is written through to the
// durable slot and announced on the hub after it commits.
type Store struct {
	mu    sync.Mutex
	name  string
	lines []domain.CartLine
	slot  slot.Slot
	hub   *notify.Hub
}

// New hydrates a store from the slot. An absent or malformed slot payload
// degrades to an empty cart and is never surfaced to the caller.
func New(ctx context.Context, s slot.Slot, hub *notify.Hub, name string) *Store {
	lines, err := s.Load(ctx, name)
	if err != nil {
		if !errors.Is(err, slot.ErrSlotEmpty) {
			log.Printf("cart slot %q unreadable, starting empty: %v", name, err)
		}
		lines = nil
	}

	return &Store{
		name:  name,
		lines: lines,
		slot:  s,
		hub:   hub,
	}
}

// Subscribe registers a listener for cart notifications and returns its
// unsubscribe handle. Listeners run synchronously after each committed
// mutation.
func (c *Store) Subscribe(fn func(notify.Notification)) func() {
	return c.hub.Subscribe(fn)
}

// Add merges the incoming line into an existing one with the same item id
// (summing quantities) or appends it.
func (c *Store) Add(ctx context.Context, line domain.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	c.mu.Lock()
	merged := false
	for i := range c.lines {
		if c.lines[i].ItemID == line.ItemID {
			c.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, line)
	}
	c.persist(ctx)
	c.mu.Unlock()

	if merged {
		c.hub.Publish(notify.Notification{
			Kind:    notify.KindQuantityUpdated,
			Message: fmt.Sprintf("Updated %s quantity", line.Name),
		})
	} else {
		c.hub.Publish(notify.Notification{
			Kind:    notify.KindItemAdded,
			Message: fmt.Sprintf("Added %s to cart", line.Name),
		})
	}
}

// SetQuantity replaces a line's quantity in place, keeping its position.
// A quantity below 1 removes the line instead.
func (c *Store) SetQuantity(ctx context.Context, itemID int64, quantity int) {
	if quantity < 1 {
		c.Remove(ctx, itemID)
		return
	}

	c.mu.Lock()
	var name string
	found := false
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			name = c.lines[i].Name
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.hub.Publish(notify.Notification{
		Kind:    notify.KindQuantityUpdated,
		Message: fmt.Sprintf("Updated %s quantity", name),
	})
}

// Remove deletes the line if present. Removing an absent item is a no-op.
func (c *Store) Remove(ctx context.Context, itemID int64) {
	c.mu.Lock()
	var removed string
	found := false
	for i, l := range c.lines {
		if l.ItemID == itemID {
			removed = l.Name
			found = true
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.hub.Publish(notify.Notification{
		Kind:    notify.KindItemRemoved,
		Message: fmt.Sprintf("Removed %s from cart", removed),
	})
}

// SetNote replaces the free-text note on a line. No-op when the item is
// absent.
func (c *Store) SetNote(ctx context.Context, itemID int64, note string) {
	c.mu.Lock()
	var name string
	found := false
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Note = note
			name = c.lines[i].Name
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.hub.Publish(notify.Notification{
		Kind:    notify.KindNoteUpdated,
		Message: fmt.Sprintf("Updated note for %s", name),
	})
}

// Clear empties the cart.
func (c *Store) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = nil
	if err := c.slot.Clear(ctx, c.name); err != nil {
		log.Printf("cart slot clear error: %v", err)
	}
	c.mu.Unlock()

	c.hub.Publish(notify.Notification{
		Kind:    notify.KindCartCleared,
		Message: "Cart cleared",
	})
}

// Lines returns a copy of the current line list in insertion order.
func (c *Store) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyLines(c.lines)
}

func (c *Store) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.TotalQuantity(c.lines)
}

func (c *Store) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Subtotal(c.lines)
}

// Snapshot captures an immutable copy of the cart. The live store keeps
// mutating independently of the returned value.
func (c *Store) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Snapshot{
		Lines:         copyLines(c.lines),
		TotalQuantity: domain.TotalQuantity(c.lines),
		Subtotal:      domain.Subtotal(c.lines),
		CapturedAt:    time.Now(),
	}
}

// persist writes the full line list through to the slot. Slot failures are
// logged, not surfaced: the in-memory cart stays authoritative for the
// session. Callers hold the mutex.
func (c *Store) persist(ctx context.Context) {
	if err := c.slot.Save(ctx, c.name, copyLines(c.lines)); err != nil {
		log.Printf("cart slot save error: %v", err)
	}
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
