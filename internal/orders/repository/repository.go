package repository

import (
	"context"
	"errors"

	"github.com/tastybites/ordering/internal/orders/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the remote persistent store consumed by the submission
// pipeline and the query service. Implementations report failures as errors;
// the pipeline maps them onto its own taxonomy.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order *domain.Order) (int64, error)
	InsertOrderLines(ctx context.Context, lines []domain.OrderLine) error
	ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.Order, error)
	GetOrderWithLines(ctx context.Context, id int64, owner string) (*domain.OrderDetail, error)
}
