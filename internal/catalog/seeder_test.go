package catalog

import (
	"context"
	"errors"
	"testing"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListActive(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) UpsertSeed(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// mockLoader returns canned products.
type mockLoader struct {
	products []model.Product
	err      error
}

func (l *mockLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	return l.products, l.err
}

func TestSeeder_Seed(t *testing.T) {
	logger := zerolog.Nop()

	products := []model.Product{
		{ID: uuid.New(), Name: "Neon Keycaps", Price: 25.00, IsActive: true},
	}

	t.Run("Upserts loaded products", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("UpsertSeed", mock.Anything, products).Return(nil)

		seeder := NewSeeder(&mockLoader{products: products}, repo, logger)
		require.NoError(t, seeder.Seed(context.Background(), "catalog.ndjson.gz"))
		repo.AssertExpectations(t)
	})

	t.Run("Empty path is a no-op", func(t *testing.T) {
		repo := new(MockProductRepository)

		seeder := NewSeeder(&mockLoader{products: products}, repo, logger)
		require.NoError(t, seeder.Seed(context.Background(), ""))
		repo.AssertNotCalled(t, "UpsertSeed", mock.Anything, mock.Anything)
	})

	t.Run("Empty seed skips upsert", func(t *testing.T) {
		repo := new(MockProductRepository)

		seeder := NewSeeder(&mockLoader{}, repo, logger)
		require.NoError(t, seeder.Seed(context.Background(), "catalog.ndjson.gz"))
		repo.AssertNotCalled(t, "UpsertSeed", mock.Anything, mock.Anything)
	})

	t.Run("Loader failure propagates", func(t *testing.T) {
		repo := new(MockProductRepository)

		seeder := NewSeeder(&mockLoader{err: errors.New("no such file")}, repo, logger)
		assert.Error(t, seeder.Seed(context.Background(), "catalog.ndjson.gz"))
	})

	t.Run("Upsert failure propagates", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("UpsertSeed", mock.Anything, products).Return(errors.New("database connection failed"))

		seeder := NewSeeder(&mockLoader{products: products}, repo, logger)
		assert.Error(t, seeder.Seed(context.Background(), "catalog.ndjson.gz"))
		repo.AssertExpectations(t)
	})
}
