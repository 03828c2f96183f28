package slot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastybites/ordering/internal/cart/domain"
)

func setupTestSQLite(t *testing.T) *SQLiteSlot {
	t.Helper()
	sut, err := NewSQLiteSlot(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sut.Close() })
	return sut
}

func TestSQLiteSlot_SaveLoadRoundTrip(t *testing.T) {
	sut := setupTestSQLite(t)
	ctx := context.Background()

	lines := []domain.CartLine{
		{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2},
		{ItemID: 2, Name: "Lemonade", UnitPrice: 3.00, Quantity: 1, Note: "no ice"},
	}
	require.NoError(t, sut.Save(ctx, "user-1", lines))

	got, err := sut.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestSQLiteSlot_SaveOverwrites(t *testing.T) {
	sut := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, sut.Save(ctx, "user-1", []domain.CartLine{{ItemID: 1, Name: "Margherita", Quantity: 1}}))
	require.NoError(t, sut.Save(ctx, "user-1", []domain.CartLine{{ItemID: 2, Name: "Lemonade", Quantity: 3}}))

	got, err := sut.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ItemID)
	assert.Equal(t, 3, got[0].Quantity)
}

func TestSQLiteSlot_LoadEmpty(t *testing.T) {
	sut := setupTestSQLite(t)

	got, err := sut.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrSlotEmpty)
	assert.Nil(t, got)
}

func TestSQLiteSlot_Clear(t *testing.T) {
	sut := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, sut.Save(ctx, "user-1", []domain.CartLine{{ItemID: 1, Name: "Margherita", Quantity: 1}}))
	require.NoError(t, sut.Clear(ctx, "user-1"))

	_, err := sut.Load(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestSQLiteSlot_SlotsAreIndependent(t *testing.T) {
	sut := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, sut.Save(ctx, "user-1", []domain.CartLine{{ItemID: 1, Name: "Margherita", Quantity: 1}}))
	require.NoError(t, sut.Save(ctx, "user-2", []domain.CartLine{{ItemID: 2, Name: "Lemonade", Quantity: 2}}))
	require.NoError(t, sut.Clear(ctx, "user-1"))

	got, err := sut.Load(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ItemID)
}
