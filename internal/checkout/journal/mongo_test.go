package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	cartdomain "github.com/tastybites/ordering/internal/cart/domain"
	"github.com/tastybites/ordering/internal/checkout/domain"
)

func setupTestJournal(t *testing.T) (Journal, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewMongoJournal(db), cleanup
}

func testRecord(token string) *Record {
	return &Record{
		Token:     token,
		Principal: "user-1",
		Snapshot: cartdomain.Snapshot{
			Lines: []cartdomain.CartLine{
				{ItemID: 1, Name: "Margherita", UnitPrice: 10.00, Quantity: 2},
			},
			TotalQuantity: 2,
			Subtotal:      20.00,
			CapturedAt:    time.Now(),
		},
	}
}

func TestBeginFind_RoundTrip(t *testing.T) {
	sut, cleanup := setupTestJournal(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, sut.Begin(ctx, testRecord("token-1")))

	got, err := sut.Find(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.Principal)
	assert.Equal(t, domain.SubmissionSubmitting, got.Status)
	require.Len(t, got.Snapshot.Lines, 1)
	assert.InDelta(t, 20.00, got.Snapshot.Subtotal, 1e-9)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestComplete_Succeeded(t *testing.T) {
	sut, cleanup := setupTestJournal(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, sut.Begin(ctx, testRecord("token-1")))

	require.NoError(t, sut.Complete(ctx, "token-1", domain.SubmissionSucceeded, 42, ""))

	got, err := sut.Find(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSucceeded, got.Status)
	assert.Equal(t, int64(42), got.OrderID)
}

func TestComplete_FailedWithReason(t *testing.T) {
	sut, cleanup := setupTestJournal(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, sut.Begin(ctx, testRecord("token-1")))

	require.NoError(t, sut.Complete(ctx, "token-1", domain.SubmissionFailed, 42, "insert order lines: connection reset"))

	got, err := sut.Find(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionFailed, got.Status)
	assert.Equal(t, "insert order lines: connection reset", got.Reason)
}

func TestComplete_UnknownToken(t *testing.T) {
	sut, cleanup := setupTestJournal(t)
	defer cleanup()

	err := sut.Complete(context.Background(), "nonexistent", domain.SubmissionFailed, 0, "x")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFind_UnknownToken(t *testing.T) {
	sut, cleanup := setupTestJournal(t)
	defer cleanup()

	got, err := sut.Find(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Nil(t, got)
}
