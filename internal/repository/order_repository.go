package repository

import (
	"context"
	"errors"
	"fmt"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// ListCartForPurchase retrieves the user's cart lines with joined product
// rows inside the transaction, so the purchase total is computed from current
// prices rather than anything the client supplied.
func (r *orderRepository) ListCartForPurchase(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
		       p.id, p.name, p.description, p.image_url, p.price, p.is_active, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart for purchase")
		return nil, fmt.Errorf("failed to query cart for purchase: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		var product model.Product
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&product.ID, &product.Name, &product.Description, &product.ImageURL,
			&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product = &product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetBalanceForUpdate reads the user's balance under a row lock. Concurrent
// purchase transactions for the same user serialise on this lock, so the
// balance check and debit are atomic relative to each other.
func (r *orderRepository) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %s not found", userID)
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock user balance")
		return 0, fmt.Errorf("failed to lock user balance: %w", err)
	}
	return balance, nil
}

// DebitBalance subtracts amount from the user's balance. The WHERE guard
// means the update cannot drive the balance negative even if the caller's
// earlier check was stale.
func (r *orderRepository) DebitBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount float64) error {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = now()
		WHERE id = $1 AND balance >= $2
	`

	tag, err := tx.Exec(ctx, query, userID, amount)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to debit balance")
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance debit rejected for user %s", userID)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Float64("amount", amount).
		Msg("balance debited")

	return nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.UserID, order.TotalAmount, order.Status, order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Float64("total_amount", order.TotalAmount).
		Msg("order created")

	return nil
}

// CreatePurchasedProducts inserts purchased product rows within the provided
// transaction.
func (r *orderRepository) CreatePurchasedProducts(ctx context.Context, tx pgx.Tx, items []model.PurchasedProduct) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO purchased_products
			(id, order_id, user_id, product_id, product_name, price, product_code, status, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, item.OrderID, item.UserID, item.ProductID,
			item.ProductName, item.Price, item.ProductCode, item.Status, item.PurchasedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create purchased product")
			return fmt.Errorf("failed to create purchased product: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("purchased products created")

	return nil
}

// ClearCart deletes all of the user's cart lines within the transaction.
func (r *orderRepository) ClearCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ListByUser retrieves the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE id = $1
	`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}
