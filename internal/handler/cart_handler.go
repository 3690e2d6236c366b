package handler

import (
	"encoding/json"
	"net/http"

	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. Every mutation returns the
// server-authoritative row so clients can reconcile their local state.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Cart dispatches /api/cart by method: GET lists, POST adds, DELETE clears.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.add(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartResponse{Items: items})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.ProductID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "product_id is required", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.service.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartItemResponse{Item: *item})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), user.ID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartResponse{Items: []model.CartItem{}})
}

// Item dispatches /api/cart/items/{id} by method: PUT replaces the quantity,
// DELETE removes the line.
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.updateItem(w, r)
	case http.MethodDelete:
		h.removeItem(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID("/api/cart/items/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid cart item ID", h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), user.ID, id, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartItemResponse{Item: *item})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID("/api/cart/items/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid cart item ID", h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), user.ID, id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}
