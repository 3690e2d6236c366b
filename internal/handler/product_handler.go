package handler

import (
	"net/http"
	"strconv"

	"neon-market/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles the public catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// parsePage reads limit/offset query parameters, leaving zero values for the
// service layer to clamp to its defaults.
func parsePage(r *http.Request) (int, int, error) {
	limit := 0
	offset := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		var err error
		offset, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
	}
	return limit, offset, nil
}

// List handles GET /api/products requests with pagination and search.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters", h.logger)
		return
	}
	search := r.URL.Query().Get("search")

	resp, err := h.service.ListActive(r.Context(), limit, offset, search)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, ok := pathID("/api/products/", r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	product, err := h.service.GetActive(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
