package catalog

import (
	"context"
	"fmt"

	"neon-market/internal/repository"

	"github.com/rs/zerolog"
)

// Seeder loads a catalogue seed file and upserts its products at startup,
// so a fresh deployment has something to sell.
type Seeder struct {
	loader      Loader
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(loader Loader, productRepo repository.ProductRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:      loader,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads the seed file at path and upserts its products. An empty path
// is a no-op so deployments without a seed file start cleanly.
func (s *Seeder) Seed(ctx context.Context, path string) error {
	if path == "" {
		s.logger.Debug().Msg("no seed path configured, skipping catalogue seeding")
		return nil
	}

	products, err := s.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load catalogue seed: %w", err)
	}
	if len(products) == 0 {
		s.logger.Warn().Str("path", path).Msg("catalogue seed file contained no products")
		return nil
	}

	if err := s.productRepo.UpsertSeed(ctx, products); err != nil {
		return fmt.Errorf("failed to upsert catalogue seed: %w", err)
	}

	s.logger.Info().
		Int("products", len(products)).
		Str("path", path).
		Msg("catalogue seeded")

	return nil
}
