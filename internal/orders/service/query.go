package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/tastybites/ordering/internal/notify"
	"github.com/tastybites/ordering/internal/orders/domain"
	"github.com/tastybites/ordering/internal/orders/repository"
	"github.com/tastybites/ordering/internal/session"
)

var ErrUnauthenticated = errors.New("caller is not authenticated")

// QueryService is the read path: order lists and single-order detail for the
// authenticated principal. Reads go through a circuit breaker so a struggling
// store fails fast instead of piling up requests, and list reads for the same
// principal are collapsed through singleflight.
type QueryService struct {
	repo    repository.OrderRepository
	session session.Session
	hub     *notify.Hub
	sfg     singleflight.Group
	listCB  *gobreaker.CircuitBreaker[[]*domain.Order]
	getCB   *gobreaker.CircuitBreaker[*domain.OrderDetail]
}

func NewQueryService(repo repository.OrderRepository, ses session.Session, hub *notify.Hub) *QueryService {
	return &QueryService{
		repo:    repo,
		session: ses,
		hub:     hub,
		listCB:  gobreaker.NewCircuitBreaker[[]*domain.Order](gobreaker.Settings{Name: "orders-list"}),
		getCB:   gobreaker.NewCircuitBreaker[*domain.OrderDetail](gobreaker.Settings{Name: "orders-detail"}),
	}
}

// ListOrders returns the principal's orders, newest first.
func (s *QueryService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	principal, ok := s.session.Principal(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	v, err, _ := s.sfg.Do(string(principal), func() (interface{}, error) {
		return s.listCB.Execute(func() ([]*domain.Order, error) {
			return s.repo.ListOrdersByOwner(ctx, string(principal))
		})
	})
	if err != nil {
		s.notifyLoadFailure()
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return v.([]*domain.Order), nil
}

// GetOrderDetail returns the order joined with its lines, or
// repository.ErrOrderNotFound when the order does not belong to the
// principal.
func (s *QueryService) GetOrderDetail(ctx context.Context, orderID int64) (*domain.OrderDetail, error) {
	principal, ok := s.session.Principal(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	detail, err := s.getCB.Execute(func() (*domain.OrderDetail, error) {
		return s.repo.GetOrderWithLines(ctx, orderID, string(principal))
	})
	if err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			s.notifyLoadFailure()
		}
		return nil, err
	}

	return detail, nil
}

func (s *QueryService) notifyLoadFailure() {
	s.hub.Publish(notify.Notification{
		Kind:    notify.KindOrdersLoadFailed,
		Message: "Failed to load orders",
	})
}
