package service

import (
	"context"
	"fmt"

	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ListByUser retrieves the user's orders, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetForUser retrieves one order scoped to the owning user. An order owned by
// someone else is reported as not found rather than forbidden, so order IDs
// are not probeable.
func (s *orderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}
