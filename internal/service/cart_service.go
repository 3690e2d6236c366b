package service

import (
	"context"
	"fmt"

	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart lines with joined product data.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

// AddItem adds quantity of a product to the cart. The product must exist and
// be active; an existing line for the product is merged server-side.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		s.logger.Warn().
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("invalid quantity for add to cart")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to check product")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	item, err := s.cartRepo.Upsert(ctx, userID, productID, quantity)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("product_id", productID.String()).
		Int("quantity", item.Quantity).
		Msg("item added to cart")

	return item, nil
}

// UpdateItem replaces a line's quantity. The quantity is validated before any
// data access; ownership is checked before the mutation.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	existing, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to load cart item")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCartItemNotFound
	}
	if existing.UserID != userID {
		s.logger.Warn().
			Str("item_id", itemID.String()).
			Str("user_id", userID.String()).
			Msg("cart item ownership check failed")
		return nil, model.ErrForbidden
	}

	item, err := s.cartRepo.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if item == nil {
		// Deleted between the ownership check and the update.
		return nil, model.ErrCartItemNotFound
	}

	return item, nil
}

// RemoveItem deletes a single line after checking ownership.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	existing, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to load cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if existing == nil {
		return model.ErrCartItemNotFound
	}
	if existing.UserID != userID {
		s.logger.Warn().
			Str("item_id", itemID.String()).
			Str("user_id", userID.String()).
			Msg("cart item ownership check failed")
		return model.ErrForbidden
	}

	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Clear empties the user's cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("cart cleared")
	return nil
}
