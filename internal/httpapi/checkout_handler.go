package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tastybites/ordering/internal/checkout/domain"
	"github.com/tastybites/ordering/internal/checkout/service"
)

type CheckoutHandler struct {
	pipeline *service.Pipeline
}

func NewCheckoutHandler(pipeline *service.Pipeline) *CheckoutHandler {
	return &CheckoutHandler{pipeline: pipeline}
}

type SubmitRequestDTO struct {
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

type SubmitResponseDTO struct {
	OrderID int64 `json:"order_id"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := h.pipeline.Submit(r.Context(), domain.DeliveryDetails{
		Address:       req.Address,
		Phone:         req.Phone,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitResponseDTO{OrderID: orderID})
}

func handleSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to place an order")
	case errors.Is(err, service.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "a submission is already in progress")
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "your cart is empty")
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	case errors.Is(err, service.ErrOrderCreateFailed):
		respondError(w, http.StatusBadGateway, "order_create_failed", "failed to create the order, please retry")
	case errors.Is(err, service.ErrOrderLinesFailed):
		respondError(w, http.StatusBadGateway, "order_lines_failed", "failed to store order items, your cart is preserved")
	default:
		respondError(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}
