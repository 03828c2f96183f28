package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tastybites/ordering/internal/orders/domain"
	"github.com/tastybites/ordering/internal/orders/repository"
	"github.com/tastybites/ordering/internal/orders/service"
)

type OrdersHandler struct {
	query *service.QueryService
}

func NewOrdersHandler(query *service.QueryService) *OrdersHandler {
	return &OrdersHandler{query: query}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.query.ListOrders(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}
		respondError(w, http.StatusBadGateway, "orders_load_failed", "failed to load orders")
		return
	}

	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	detail, err := h.query.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		case errors.Is(err, repository.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		default:
			respondError(w, http.StatusBadGateway, "orders_load_failed", "failed to load order details")
		}
		return
	}

	respondJSON(w, http.StatusOK, detail)
}
