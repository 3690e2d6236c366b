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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, image_url, price, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// list runs the shared paginated product query. activeOnly restricts results
// to the public catalogue.
func (r *productRepository) list(ctx context.Context, limit, offset int, search string, activeOnly bool) ([]model.Product, int, error) {
	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	if activeOnly {
		where += ` AND is_active = true`
	}

	var total int
	countQuery := `SELECT count(*) FROM products ` + where
	if err := r.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// ListActive retrieves active products with pagination and optional search.
func (r *productRepository) ListActive(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error) {
	return r.list(ctx, limit, offset, search, true)
}

// List retrieves all products for the admin surface.
func (r *productRepository) List(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error) {
	return r.list(ctx, limit, offset, search, false)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetActiveByID retrieves a product only if it is active.
func (r *productRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = true`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, image_url, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.ImageURL,
		product.Price, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID.String()).Msg("product created")
	return nil
}

// Update replaces a product's mutable fields.
func (r *productRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, image_url = $4, price = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.ImageURL,
		product.Price, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpsertSeed inserts catalogue seed products, updating existing rows by ID.
func (r *productRepository) UpsertSeed(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (id, name, description, image_url, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    image_url = EXCLUDED.image_url,
		    price = EXCLUDED.price,
		    is_active = EXCLUDED.is_active,
		    updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Description, p.ImageURL, p.Price, p.IsActive, p.CreatedAt, p.UpdatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(products); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("product_id", products[i].ID.String()).Msg("failed to upsert seed product")
			return fmt.Errorf("failed to upsert seed product: %w", err)
		}
	}

	r.logger.Info().Int("count", len(products)).Msg("catalogue seed upserted")
	return nil
}
