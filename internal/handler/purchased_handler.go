package handler

import (
	"encoding/json"
	"net/http"

	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PurchasedHandler handles HTTP requests over redeemed digital goods.
type PurchasedHandler struct {
	service service.PurchasedProductService
	logger  zerolog.Logger
}

// NewPurchasedHandler creates a new purchased product handler.
func NewPurchasedHandler(service service.PurchasedProductService, logger zerolog.Logger) *PurchasedHandler {
	return &PurchasedHandler{
		service: service,
		logger:  logger.With().Str("handler", "purchased").Logger(),
	}
}

// List handles GET /api/purchased-products requests, optionally filtered by
// an orderId query parameter.
func (h *PurchasedHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	var orderID *uuid.UUID
	if raw := r.URL.Query().Get("orderId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid orderId parameter", h.logger)
			return
		}
		orderID = &id
	}

	products, err := h.service.ListForUser(r.Context(), user.ID, orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PurchasedProductListResponse{Products: products})
}

// UpdateStatus handles PUT /api/purchased-products/{id} requests, toggling a
// code between not_applied and applied.
func (h *PurchasedHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID("/api/purchased-products/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid purchased product ID", h.logger)
		return
	}

	var req model.UpdatePurchasedStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	product, err := h.service.UpdateStatus(r.Context(), user.ID, id, req.Status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PurchasedProductResponse{Product: *product})
}
