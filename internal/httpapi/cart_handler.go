package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	cartdomain "github.com/tastybites/ordering/internal/cart/domain"
	cartstore "github.com/tastybites/ordering/internal/cart/store"
	"github.com/tastybites/ordering/internal/session"
)

type CartHandler struct {
	carts   *cartstore.Manager
	session session.Session
}

func NewCartHandler(carts *cartstore.Manager, ses session.Session) *CartHandler {
	return &CartHandler{carts: carts, session: ses}
}

type AddLineRequestDTO struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	Note      string  `json:"note"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SetNoteRequestDTO struct {
	Note string `json:"note"`
}

type CartResponseDTO struct {
	Lines         []cartdomain.CartLine `json:"lines"`
	TotalQuantity int                   `json:"total_quantity"`
	Subtotal      float64               `json:"subtotal"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ItemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.UnitPrice < 0 {
		respondError(w, http.StatusBadRequest, "invalid_unit_price", "unit_price must not be negative")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	cart.Add(r.Context(), cartdomain.CartLine{
		ItemID:    req.ItemID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		ImageURL:  req.ImageURL,
		Quantity:  req.Quantity,
		Note:      req.Note,
	})

	respondJSON(w, http.StatusCreated, cartResponse(cart))
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	cart.SetQuantity(r.Context(), itemID, req.Quantity)

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	var req SetNoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	cart.SetNote(r.Context(), itemID, req.Note)

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id must be a positive integer")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	cart.Remove(r.Context(), itemID)

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.session.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart := h.carts.For(r.Context(), principal)
	cart.Clear(r.Context())

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func itemIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

func cartResponse(cart *cartstore.Store) CartResponseDTO {
	lines := cart.Lines()
	if lines == nil {
		lines = []cartdomain.CartLine{}
	}
	return CartResponseDTO{
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      cart.Subtotal(),
	}
}
