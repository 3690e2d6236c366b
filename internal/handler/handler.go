package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"neon-market/internal/middleware"
	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already written; an encode failure here cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto an HTTP status. Domain error
// messages are surfaced verbatim; anything unrecognised becomes a generic 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var balanceErr *model.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		logger.Info().
			Float64("required", balanceErr.Required).
			Float64("available", balanceErr.Available).
			Msg("insufficient balance")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:     "Insufficient balance",
			Required:  &balanceErr.Required,
			Available: &balanceErr.Available,
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusInternalServerError
		switch domainErr.Code {
		case model.ErrCodeUnauthorised:
			status = http.StatusUnauthorized
		case model.ErrCodeForbidden:
			status = http.StatusForbidden
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeValidation, model.ErrCodeEmptyCart, model.ErrCodeMissingField:
			status = http.StatusBadRequest
		}
		writeError(w, status, domainErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal Server Error", logger)
}

// currentUser pulls the authenticated user out of the request context. The
// auth middleware guarantees it for protected routes; a miss means the route
// was wired without it.
func currentUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", logger)
		return nil, false
	}
	return user, true
}

// pathID extracts a trailing UUID path segment after the given prefix, e.g.
// pathID("/api/cart/items/", r) for /api/cart/items/{id}.
func pathID(prefix string, r *http.Request) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || rest == r.URL.Path || strings.Contains(rest, "/") {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
