package handler

import (
	"net/http"

	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/rs/zerolog"
)

// PurchaseHandler handles checkout HTTP requests.
type PurchaseHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service service.CheckoutService, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		logger:  logger.With().Str("handler", "purchase").Logger(),
	}
}

// Purchase handles POST /api/purchase requests. The request carries no body:
// the cart contents and prices are read server-side inside the transaction.
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.Purchase(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", user.ID.String()).
		Float64("total", order.TotalAmount).
		Msg("purchase completed")

	writeJSON(w, http.StatusOK, model.OrderResponse{Order: *order})
}
