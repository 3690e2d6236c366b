package handler

import (
	"encoding/json"
	"net/http"

	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/rs/zerolog"
)

// AdminProductHandler handles the admin catalogue management HTTP requests.
// Routes are mounted behind the admin middleware, so requests reaching these
// handlers are already authorised.
type AdminProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewAdminProductHandler creates a new admin product handler.
func NewAdminProductHandler(service service.ProductService, logger zerolog.Logger) *AdminProductHandler {
	return &AdminProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin_product").Logger(),
	}
}

// Products dispatches /api/admin/products by method: GET lists every product
// including inactive ones, POST creates.
func (h *AdminProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *AdminProductHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters", h.logger)
		return
	}
	search := r.URL.Query().Get("search")

	resp, err := h.service.List(r.Context(), limit, offset, search)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Product dispatches /api/admin/products/{id} by method: PUT updates, DELETE
// removes.
func (h *AdminProductHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID("/api/admin/products/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input model.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}

		product, err := h.service.Update(r.Context(), id, &input)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, product)

	case http.MethodDelete:
		if err := h.service.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}
