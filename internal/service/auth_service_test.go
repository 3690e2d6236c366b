package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"neon-market/internal/auth"
	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository.
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

func TestAuthService_Logout(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Revokes session and drops cached role", func(t *testing.T) {
		cache := auth.NewRoleCache(time.Minute, 100, logger)
		cache.Set(userID, true)

		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteSession", ctx, "session-token").Return(nil)

		svc := NewAuthService(mockRepo, cache, logger)
		require.NoError(t, svc.Logout(ctx, "session-token", userID))

		_, cached := cache.Get(userID)
		assert.False(t, cached, "cached role should be invalidated on logout")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Revocation failure keeps cache entry", func(t *testing.T) {
		cache := auth.NewRoleCache(time.Minute, 100, logger)
		cache.Set(userID, true)

		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteSession", ctx, "session-token").Return(errors.New("database error"))

		svc := NewAuthService(mockRepo, cache, logger)
		assert.Error(t, svc.Logout(ctx, "session-token", userID))

		_, cached := cache.Get(userID)
		assert.True(t, cached)
	})
}
