package service

import (
	"context"
	"math"
	"time"

	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(orderRepo repository.OrderRepository, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Purchase converts the user's cart into an order plus purchased product rows
// inside one database transaction:
//
//  1. Lock the user's balance row, serialising concurrent purchases.
//  2. Read the cart with current product prices and compute the total
//     server-side; client-supplied amounts are never consulted.
//  3. Reject on empty cart or insufficient balance.
//  4. Debit, create the order, mint one redemption code per unit of quantity,
//     and empty the cart.
//
// Any failure rolls the whole transaction back: a debited balance never
// persists without its order, and the cart never survives a completed
// purchase.
func (s *checkoutService) Purchase(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin purchase transaction")
		return nil, model.ErrTransactionFailure
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback purchase transaction")
			}
		}
	}()

	// Lock the balance row first so two purchases by the same user cannot
	// both pass the balance check against one snapshot.
	balance, err := s.orderRepo.GetBalanceForUpdate(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock balance")
		return nil, model.ErrTransactionFailure
	}

	items, err := s.orderRepo.ListCartForPurchase(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, model.ErrTransactionFailure
	}

	if len(items) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	total := roundCents(cartTotal(items))

	if balance < total {
		s.logger.Info().
			Str("user_id", userID.String()).
			Float64("required", total).
			Float64("available", balance).
			Msg("purchase rejected: insufficient balance")
		err = &model.InsufficientBalanceError{Required: total, Available: balance}
		return nil, err
	}

	if err = s.orderRepo.DebitBalance(ctx, tx, userID, total); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to debit balance")
		return nil, model.ErrTransactionFailure
	}

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: total,
		Status:      model.OrderStatusCompleted,
		CreatedAt:   now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, model.ErrTransactionFailure
	}

	purchased := buildPurchasedProducts(order, items, now)
	if err = s.orderRepo.CreatePurchasedProducts(ctx, tx, purchased); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(purchased)).
			Msg("failed to create purchased products")
		return nil, model.ErrTransactionFailure
	}

	if err = s.orderRepo.ClearCart(ctx, tx, userID); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to clear cart")
		return nil, model.ErrTransactionFailure
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit purchase transaction")
		return nil, model.ErrTransactionFailure
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Float64("total_amount", total).
		Int("code_count", len(purchased)).
		Msg("purchase completed")

	return order, nil
}

// cartTotal sums price x quantity over the cart using live product prices.
func cartTotal(items []model.CartItem) float64 {
	var total float64
	for i := range items {
		total += items[i].LineTotal()
	}
	return total
}

// buildPurchasedProducts mints one redemption code per unit of quantity, each
// carrying the product name and price captured at purchase time.
func buildPurchasedProducts(order *model.Order, items []model.CartItem, now time.Time) []model.PurchasedProduct {
	var purchased []model.PurchasedProduct
	for _, item := range items {
		for unit := 0; unit < item.Quantity; unit++ {
			purchased = append(purchased, model.PurchasedProduct{
				ID:          uuid.New(),
				OrderID:     order.ID,
				UserID:      order.UserID,
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Price:       item.Product.Price,
				ProductCode: model.NewRedemptionCode(),
				Status:      model.PurchasedStatusNotApplied,
				PurchasedAt: now,
			})
		}
	}
	return purchased
}

// roundCents rounds a monetary amount to two decimal places.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
