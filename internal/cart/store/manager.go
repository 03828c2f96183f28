package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tastybites/ordering/internal/cart/slot"
	"github.com/tastybites/ordering/internal/notify"
	"github.com/tastybites/ordering/internal/session"
)

// Manager hands out one Store per principal, hydrating it from the slot on
// first access. Slot names are the principal, so a returning customer gets
// their persisted cart back (last write wins across devices).
type Manager struct {
	mu     sync.RWMutex
	slot   slot.Slot
	hub    *notify.Hub
	stores map[session.Principal]*Store
	sfg    singleflight.Group // Prevents concurrent hydration of the same cart
}

func NewManager(s slot.Slot, hub *notify.Hub) *Manager {
	return &Manager{
		slot:   s,
		hub:    hub,
		stores: make(map[session.Principal]*Store),
	}
}

func (m *Manager) For(ctx context.Context, principal session.Principal) *Store {
	m.mu.RLock()
	st, ok := m.stores[principal]
	m.mu.RUnlock()
	if ok {
		return st
	}

	v, _, _ := m.sfg.Do(string(principal), func() (interface{}, error) {
		m.mu.RLock()
		existing, found := m.stores[principal]
		m.mu.RUnlock()
		if found {
			return existing, nil
		}

		created := New(ctx, m.slot, m.hub, string(principal))
		m.mu.Lock()
		m.stores[principal] = created
		m.mu.Unlock()
		return created, nil
	})

	return v.(*Store)
}

// Release drops the in-memory store for a principal, e.g. when their session
// ends. The slot keeps the persisted lines.
func (m *Manager) Release(principal session.Principal) {
	m.mu.Lock()
	delete(m.stores, principal)
	m.mu.Unlock()
}
