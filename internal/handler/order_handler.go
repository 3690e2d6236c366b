package handler

import (
	"net/http"

	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order history HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderListResponse{Orders: orders})
}

// GetByID handles GET /api/orders/{id} requests, scoped to the caller.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID("/api/orders/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	order, err := h.service.GetForUser(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Order: *order})
}
