package slot

import (
	"context"
	"errors"

	"github.com/tastybites/ordering/internal/cart/domain"
)

// Slot is a durable local key-value slot holding the serialized cart line
// list. The store writes the full list after every mutation and reads it
// once at hydration.
type Slot interface {
	Load(ctx context.Context, name string) ([]domain.CartLine, error)
	Save(ctx context.Context, name string, lines []domain.CartLine) error
	Clear(ctx context.Context, name string) error
}

var ErrSlotEmpty = errors.New("slot is empty")
