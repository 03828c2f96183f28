package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastybites/ordering/internal/cart/domain"
	"github.com/tastybites/ordering/internal/cart/slot"
	"github.com/tastybites/ordering/internal/notify"
)

type mockSlot struct {
	m       sync.RWMutex
	lines   map[string][]domain.CartLine
	loadErr error
	saveErr error
	saves   int
}

func newMockSlot() *mockSlot {
	return &mockSlot{lines: make(map[string][]domain.CartLine)}
}

func (m *mockSlot) Load(_ context.Context, name string) ([]domain.CartLine, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	lines, ok := m.lines[name]
	if !ok {
		return nil, slot.ErrSlotEmpty
	}
	return lines, nil
}

func (m *mockSlot) Save(_ context.Context, name string, lines []domain.CartLine) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lines[name] = lines
	return nil
}

func (m *mockSlot) Clear(_ context.Context, name string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.lines, name)
	return nil
}

func newTestStore(t *testing.T) (*Store, *mockSlot, *notify.Hub) {
	t.Helper()
	ms := newMockSlot()
	hub := notify.NewHub()
	sut := New(context.Background(), ms, hub, "user-1")
	return sut, ms, hub
}

func TestAdd_NewLine(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_SameItemMergesQuantities(t *testing.T) {
	sut, _, _ := newTestStore(t)

	// Repeated adds of one item id must never create duplicate lines
	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 3})
	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, 6, sut.TotalQuantity())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 3, Name: "Tiramisu", UnitPrice: 6.50, Quantity: 1})
	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})
	sut.Add(context.Background(), domain.CartLine{ItemID: 2, Name: "Lemonade", UnitPrice: 3.00, Quantity: 1})
	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})

	lines := sut.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].ItemID)
	assert.Equal(t, int64(1), lines[1].ItemID)
	assert.Equal(t, int64(2), lines[2].ItemID)
}

func TestSetQuantity_InPlace(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.Add(context.Background(), domain.CartLine{ItemID: 2, Name: "Lemonade", UnitPrice: 3.00, Quantity: 1})

	sut.SetQuantity(context.Background(), 1, 5)

	lines := sut.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.SetQuantity(context.Background(), 1, 0)

	assert.Empty(t, sut.Lines())
}

func TestSetQuantity_NegativeRemovesLine(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.SetQuantity(context.Background(), 1, -1)

	assert.Empty(t, sut.Lines())
}

func TestRemove_AbsentItemIsNoOp(t *testing.T) {
	sut, ms, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	savesBefore := ms.saves

	sut.Remove(context.Background(), 99)

	require.Len(t, sut.Lines(), 1)
	assert.Equal(t, savesBefore, ms.saves, "no-op remove should not rewrite the slot")
}

func TestSetNote(t *testing.T) {
	sut, _, _ := newTestStore(t)

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})
	sut.SetNote(context.Background(), 1, "extra cheese")
	sut.SetNote(context.Background(), 99, "ignored")

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "extra cheese", lines[0].Note)
}

func TestSubtotal_RecomputedAfterEveryMutation(t *testing.T) {
	sut, _, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.Add(ctx, domain.CartLine{ItemID: 2, Name: "Lemonade", UnitPrice: 5.00, Quantity: 1})
	assert.InDelta(t, 25.00, sut.Subtotal(), 1e-9)

	sut.SetQuantity(ctx, 1, 1)
	assert.InDelta(t, 15.00, sut.Subtotal(), 1e-9)

	sut.Remove(ctx, 2)
	assert.InDelta(t, 10.00, sut.Subtotal(), 1e-9)

	sut.Clear(ctx)
	assert.Zero(t, sut.Subtotal())
	assert.Zero(t, sut.TotalQuantity())
}

func TestPersistRestore_RoundTrip(t *testing.T) {
	ms := newMockSlot()
	hub := notify.NewHub()
	ctx := context.Background()

	first := New(ctx, ms, hub, "user-1")
	first.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2, Note: "well done"})
	first.Add(ctx, domain.CartLine{ItemID: 2, Name: "Lemonade", UnitPrice: 3.00, Quantity: 1})

	second := New(ctx, ms, hub, "user-1")
	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, first.TotalQuantity(), second.TotalQuantity())
	assert.InDelta(t, first.Subtotal(), second.Subtotal(), 1e-9)
}

func TestNew_CorruptSlotDegradesToEmptyCart(t *testing.T) {
	ms := newMockSlot()
	ms.loadErr = fmt.Errorf("unmarshal cart lines failed: unexpected end of JSON input")

	sut := New(context.Background(), ms, notify.NewHub(), "user-1")

	assert.Empty(t, sut.Lines())
	assert.Zero(t, sut.Subtotal())
}

func TestMutations_WriteThroughToSlot(t *testing.T) {
	sut, ms, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})
	require.Len(t, ms.lines["user-1"], 1)

	sut.SetQuantity(ctx, 1, 4)
	assert.Equal(t, 4, ms.lines["user-1"][0].Quantity)

	sut.Clear(ctx)
	_, ok := ms.lines["user-1"]
	assert.False(t, ok, "clear should empty the slot")
}

func TestSlotSaveError_DoesNotSurface(t *testing.T) {
	sut, ms, _ := newTestStore(t)
	ms.saveErr = fmt.Errorf("disk full")

	sut.Add(context.Background(), domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})

	// In-memory cart stays authoritative even when the slot write fails
	require.Len(t, sut.Lines(), 1)
}

func TestSubscribe_NotificationsPerMutation(t *testing.T) {
	sut, _, _ := newTestStore(t)
	ctx := context.Background()

	var got []notify.Notification
	unsubscribe := sut.Subscribe(func(n notify.Notification) {
		got = append(got, n)
	})

	sut.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})
	sut.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 1})
	sut.Remove(ctx, 1)

	require.Len(t, got, 3)
	assert.Equal(t, notify.KindItemAdded, got[0].Kind)
	assert.Equal(t, notify.KindQuantityUpdated, got[1].Kind)
	assert.Equal(t, notify.KindItemRemoved, got[2].Kind)
	assert.Contains(t, got[2].Message, "Margherita")

	unsubscribe()
	sut.Clear(ctx)
	assert.Len(t, got, 3, "unsubscribed listener should not receive further notifications")
}

func TestSnapshot_ImmutableCopy(t *testing.T) {
	sut, _, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, domain.CartLine{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2})
	sut.Add(ctx, domain.CartLine{ItemID: 2, Name: "Lemonade", UnitPrice: 5.00, Quantity: 1})

	snapshot := sut.Snapshot()
	require.Len(t, snapshot.Lines, 2)
	assert.Equal(t, 3, snapshot.TotalQuantity)
	assert.InDelta(t, 25.00, snapshot.Subtotal, 1e-9)
	assert.False(t, snapshot.CapturedAt.IsZero())

	// The live store keeps mutating independently of the snapshot
	sut.SetQuantity(ctx, 1, 9)
	sut.Remove(ctx, 2)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
	assert.Len(t, snapshot.Lines, 2)
}
