package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"neon-market/internal/auth"
	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/rs/zerolog"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user set by SessionAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// ContextWithUser returns a context carrying the given user, as SessionAuth
// would set it.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionAuth resolves the bearer token from the Authorization header to a
// user and stores it in the request context. Unauthenticated requests to
// protected paths get a 401; the health check and public catalogue stay open.
func SessionAuth(userRepo repository.UserRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := BearerToken(r)
			if token == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing session token")
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := userRepo.GetBySessionToken(r.Context(), token)
			if err != nil {
				logger.Error().Err(err).Msg("session lookup failed")
				writeAuthError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			if user == nil {
				logger.Warn().Str("path", r.URL.Path).Msg("invalid or expired session token")
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a handler on the authenticated user's admin flag,
// consulting the role cache before falling back to the user loaded by
// SessionAuth.
func RequireAdmin(cache *auth.RoleCache, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			isAdmin, cached := cache.Get(user.ID)
			if !cached {
				isAdmin = user.IsAdmin
				cache.Set(user.ID, isAdmin)
			}

			if !isAdmin {
				logger.Warn().
					Str("user_id", user.ID.String()).
					Str("path", r.URL.Path).
					Msg("admin access denied")
				writeAuthError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// isPublicPath reports whether the request needs no session.
func isPublicPath(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	// Public catalogue browsing: GET /api/products and /api/products/{id}
	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/products") {
		return true
	}
	return false
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error": "` + message + `"}`))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
