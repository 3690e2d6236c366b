package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neon-market/internal/model"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Catalogue pagination bounds.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// clampPage normalises limit/offset to sane bounds.
func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListActive retrieves the public catalogue with pagination and search.
func (s *productService) ListActive(ctx context.Context, limit, offset int, search string) (*model.ProductListResponse, error) {
	limit, offset = clampPage(limit, offset)

	products, total, err := s.productRepo.ListActive(ctx, limit, offset, search)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductListResponse{
		Products: products,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// GetActive retrieves one active product.
func (s *productService) GetActive(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// List retrieves all products for the admin surface.
func (s *productService) List(ctx context.Context, limit, offset int, search string) (*model.ProductListResponse, error) {
	limit, offset = clampPage(limit, offset)

	products, total, err := s.productRepo.List(ctx, limit, offset, search)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductListResponse{
		Products: products,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// validateProductInput checks the admin payload for create and update.
func validateProductInput(input *model.ProductInput) error {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return model.ErrProductNameRequired
	}
	if input.Price == nil || *input.Price < 0 {
		return model.ErrInvalidPrice
	}
	return nil
}

// Create validates and inserts a new product.
func (s *productService) Create(ctx context.Context, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Price:       *input.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update validates and replaces a product's fields.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to load product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = strings.TrimSpace(input.Description)
	existing.ImageURL = strings.TrimSpace(input.ImageURL)
	existing.Price = *input.Price
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	existing.UpdatedAt = time.Now()

	updated, err := s.productRepo.Update(ctx, existing)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	return existing, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}
