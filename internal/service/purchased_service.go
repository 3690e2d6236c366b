package service

import (
	"context"
	"fmt"

	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// purchasedProductService implements PurchasedProductService.
type purchasedProductService struct {
	purchasedRepo repository.PurchasedProductRepository
	logger        zerolog.Logger
}

// NewPurchasedProductService creates a new purchased product service.
func NewPurchasedProductService(
	purchasedRepo repository.PurchasedProductRepository,
	logger zerolog.Logger,
) PurchasedProductService {
	return &purchasedProductService{
		purchasedRepo: purchasedRepo,
		logger:        logger.With().Str("service", "purchased_product").Logger(),
	}
}

// ListForUser retrieves the user's purchased products, optionally filtered
// by order.
func (s *purchasedProductService) ListForUser(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID) ([]model.PurchasedProduct, error) {
	products, err := s.purchasedRepo.ListByUser(ctx, userID, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list purchased products")
		return nil, fmt.Errorf("failed to list purchased products: %w", err)
	}
	if products == nil {
		products = []model.PurchasedProduct{}
	}
	return products, nil
}

// UpdateStatus toggles a redemption code between not_applied and applied.
// The status value is validated before any data access; ownership is checked
// before the mutation.
func (s *purchasedProductService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*model.PurchasedProduct, error) {
	if !model.ValidPurchasedStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	existing, err := s.purchasedRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("purchased_id", id.String()).Msg("failed to load purchased product")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if existing == nil {
		return nil, model.ErrPurchasedNotFound
	}
	if existing.UserID != userID {
		s.logger.Warn().
			Str("purchased_id", id.String()).
			Str("user_id", userID.String()).
			Msg("purchased product ownership check failed")
		return nil, model.ErrForbidden
	}

	updated, err := s.purchasedRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Str("purchased_id", id.String()).Msg("failed to update status")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if updated == nil {
		return nil, model.ErrPurchasedNotFound
	}

	return updated, nil
}
