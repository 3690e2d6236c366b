package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Purchase(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func TestPurchaseHandler_Purchase(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: uuid.New(), Email: "buyer@example.com", Balance: 120}

	order := &model.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		TotalAmount: 79.99,
		Status:      model.OrderStatusCompleted,
		CreatedAt:   time.Now(),
	}

	tests := []struct {
		name           string
		method         string
		user           *model.User
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			user:           user,
			mockReturn:     order,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			method:         http.MethodPost,
			user:           user,
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Insufficient balance",
			method:         http.MethodPost,
			user:           user,
			mockError:      &model.InsufficientBalanceError{Required: 79.99, Available: 12.50},
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Transaction failure",
			method:         http.MethodPost,
			user:           user,
			mockError:      errors.New("commit failed"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "No user in context",
			method:         http.MethodPost,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			user:           user,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			handler := NewPurchaseHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Purchase", mock.Anything, user.ID).Return(tt.mockReturn, tt.mockError)
			}

			w := httptest.NewRecorder()
			handler.Purchase(w, authedRequest(t, tt.method, "/api/purchase", nil, tt.user))

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestPurchaseHandler_InsufficientBalanceBody(t *testing.T) {
	logger := zerolog.Nop()
	user := &model.User{ID: uuid.New(), Balance: 12.50}

	mockService := new(MockCheckoutService)
	mockService.On("Purchase", mock.Anything, user.ID).
		Return(nil, &model.InsufficientBalanceError{Required: 79.99, Available: 12.50})
	handler := NewPurchaseHandler(mockService, logger)

	w := httptest.NewRecorder()
	handler.Purchase(w, authedRequest(t, http.MethodPost, "/api/purchase", nil, user))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Required)
	require.NotNil(t, resp.Available)
	assert.Equal(t, 79.99, *resp.Required)
	assert.Equal(t, 12.50, *resp.Available)
	mockService.AssertExpectations(t)
}
