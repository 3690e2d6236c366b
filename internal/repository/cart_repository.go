package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// cartItemJoinQuery selects a cart line with its joined product row. Product
// data is read live so prices reflect the current catalogue.
const cartItemJoinQuery = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
	       p.id, p.name, p.description, p.image_url, p.price, p.is_active, p.created_at, p.updated_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
`

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var item model.CartItem
	var product model.Product
	err := row.Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
		&product.ID, &product.Name, &product.Description, &product.ImageURL,
		&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

// ListByUser retrieves the user's cart lines, newest first.
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	query := cartItemJoinQuery + `
	WHERE ci.user_id = $1
	ORDER BY ci.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItem retrieves a single cart line by ID.
func (r *cartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	query := cartItemJoinQuery + ` WHERE ci.id = $1`

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return item, nil
}

// Upsert adds quantity of a product to the user's cart. The unique
// (user_id, product_id) constraint guarantees at most one line per product;
// conflicting adds merge by summing the quantity server-side.
func (r *cartRepository) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id
	`

	var itemID uuid.UUID
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, productID, quantity, time.Now()).Scan(&itemID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	r.logger.Debug().
		Str("item_id", itemID.String()).
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("cart item upserted")

	return r.GetItem(ctx, itemID)
}

// UpdateQuantity replaces a line's quantity.
func (r *cartRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.GetItem(ctx, itemID)
}

// Delete removes a single cart line.
func (r *cartRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// DeleteAllForUser empties the user's cart.
func (r *cartRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
