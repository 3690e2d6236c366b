package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neon-market/internal/auth"
	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestSessionAuth(t *testing.T) {
	userID := uuid.New()
	testUser := &model.User{ID: userID, Email: "user@example.com", Balance: 50}

	tests := []struct {
		name           string
		path           string
		method         string
		authHeader     string
		setupMock      func(*MockUserRepository)
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Health check needs no session",
			path:           "/health",
			method:         http.MethodGet,
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Public catalogue needs no session",
			path:           "/api/products",
			method:         http.MethodGet,
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing token",
			path:           "/api/cart",
			method:         http.MethodGet,
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:       "Valid token",
			path:       "/api/cart",
			method:     http.MethodGet,
			authHeader: "Bearer valid-token",
			setupMock: func(m *MockUserRepository) {
				m.On("GetBySessionToken", mock.Anything, "valid-token").Return(testUser, nil)
			},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:       "Unknown token",
			path:       "/api/cart",
			method:     http.MethodGet,
			authHeader: "Bearer bogus",
			setupMock: func(m *MockUserRepository) {
				m.On("GetBySessionToken", mock.Anything, "bogus").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Malformed header",
			path:           "/api/cart",
			method:         http.MethodGet,
			authHeader:     "Basic dXNlcjpwYXNz",
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:       "Lookup failure",
			path:       "/api/cart",
			method:     http.MethodGet,
			authHeader: "Bearer valid-token",
			setupMock: func(m *MockUserRepository) {
				m.On("GetBySessionToken", mock.Anything, "valid-token").Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectHandler:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				if tt.authHeader != "" {
					user, ok := UserFromContext(r.Context())
					assert.True(t, ok)
					assert.Equal(t, userID, user.ID)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := SessionAuth(mockRepo, zerolog.Nop())(testHandler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	adminUser := &model.User{ID: uuid.New(), IsAdmin: true}
	plainUser := &model.User{ID: uuid.New(), IsAdmin: false}

	tests := []struct {
		name           string
		user           *model.User
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Admin allowed",
			user:           adminUser,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Non-admin forbidden",
			user:           plainUser,
			expectedStatus: http.StatusForbidden,
			expectHandler:  false,
		},
		{
			name:           "No user in context",
			user:           nil,
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := auth.NewRoleCache(time.Minute, 10, zerolog.Nop())

			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireAdmin(cache, zerolog.Nop())(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), userContextKey, tt.user)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
		})
	}
}

func TestRequireAdmin_UsesCache(t *testing.T) {
	// A stale admin flag on the context user must lose to a fresh cache entry.
	user := &model.User{ID: uuid.New(), IsAdmin: true}
	cache := auth.NewRoleCache(time.Minute, 10, zerolog.Nop())
	cache.Set(user.ID, false)

	handler := RequireAdmin(cache, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, user))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogging(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	handler := Logging(zerolog.Nop())(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	handler := Recovery(zerolog.Nop())(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
