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

// purchasedProductRepository implements PurchasedProductRepository using PostgreSQL.
type purchasedProductRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPurchasedProductRepository creates a new PostgreSQL-backed purchased
// product repository.
func NewPurchasedProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) PurchasedProductRepository {
	return &purchasedProductRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "purchased_product").Logger(),
	}
}

const purchasedColumns = `id, order_id, user_id, product_id, product_name, price, product_code, status, purchased_at`

func scanPurchased(row pgx.Row) (*model.PurchasedProduct, error) {
	var p model.PurchasedProduct
	err := row.Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.ProductID,
		&p.ProductName, &p.Price, &p.ProductCode, &p.Status, &p.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser retrieves the user's purchased products, newest first,
// optionally filtered by order.
func (r *purchasedProductRepository) ListByUser(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID) ([]model.PurchasedProduct, error) {
	query := `
		SELECT ` + purchasedColumns + `
		FROM purchased_products
		WHERE user_id = $1 AND ($2::uuid IS NULL OR order_id = $2)
		ORDER BY purchased_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query purchased products")
		return nil, fmt.Errorf("failed to query purchased products: %w", err)
	}
	defer rows.Close()

	var products []model.PurchasedProduct
	for rows.Next() {
		p, err := scanPurchased(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan purchased product row")
			return nil, fmt.Errorf("failed to scan purchased product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating purchased product rows")
		return nil, fmt.Errorf("error iterating purchased products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a purchased product by ID.
func (r *purchasedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchasedProduct, error) {
	query := `SELECT ` + purchasedColumns + ` FROM purchased_products WHERE id = $1`

	p, err := scanPurchased(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("purchased_id", id.String()).Msg("failed to query purchased product")
		return nil, fmt.Errorf("failed to query purchased product: %w", err)
	}

	return p, nil
}

// UpdateStatus sets the status of a purchased product and returns the
// updated row.
func (r *purchasedProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.PurchasedProduct, error) {
	query := `
		UPDATE purchased_products
		SET status = $2
		WHERE id = $1
		RETURNING ` + purchasedColumns

	p, err := scanPurchased(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("purchased_id", id.String()).Msg("failed to update purchased product status")
		return nil, fmt.Errorf("failed to update purchased product status: %w", err)
	}

	r.logger.Debug().
		Str("purchased_id", id.String()).
		Str("status", status).
		Msg("purchased product status updated")

	return p, nil
}
