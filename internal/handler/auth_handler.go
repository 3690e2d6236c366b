package handler

import (
	"net/http"

	"neon-market/internal/middleware"
	"neon-market/internal/model"
	"neon-market/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles profile and session lifecycle HTTP requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Profile handles GET /api/profile requests, returning the authenticated
// user including the current balance.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, model.ProfileResponse{User: *user})
}

// Logout handles POST /api/auth/logout requests, revoking the presented
// session token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	user, ok := currentUser(w, r, h.logger)
	if !ok {
		return
	}

	token := middleware.BearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	if err := h.service.Logout(r.Context(), token, user.ID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
