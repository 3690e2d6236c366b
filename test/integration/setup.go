package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			balance DECIMAL(12, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			is_admin BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			price DECIMAL(12, 2) NOT NULL CHECK (price >= 0),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			total_amount DECIMAL(12, 2) NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS purchased_products (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			product_name TEXT NOT NULL,
			price DECIMAL(12, 2) NOT NULL,
			product_code TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			purchased_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_purchased_products_user_id ON purchased_products(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CreateUser inserts a user and returns its ID.
func CreateUser(t *testing.T, pool *pgxpool.Pool, balance float64, isAdmin bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, email, full_name, balance, is_admin)
		VALUES ($1, $2, $3, $4, $5)
	`, id, fmt.Sprintf("%s@example.com", id), "Integration User", balance, isAdmin)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

// CreateSession inserts a session for the user and returns the bearer token.
func CreateSession(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) string {
	t.Helper()

	token := uuid.NewString()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return token
}

// CreateProduct inserts a product and returns it.
func CreateProduct(t *testing.T, pool *pgxpool.Pool, name string, price float64, active bool) model.Product {
	t.Helper()

	p := model.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, description, image_url, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Description, p.ImageURL, p.Price, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create product %s: %v", name, err)
	}
	return p
}

// AddCartLine inserts a cart line for the user and returns its ID.
func AddCartLine(t *testing.T, pool *pgxpool.Pool, userID, productID uuid.UUID, quantity int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, userID, productID, quantity, time.Now())
	if err != nil {
		t.Fatalf("failed to add cart line: %v", err)
	}
	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"purchased_products", "orders", "cart_items", "sessions", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in the table matching the user.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string, userID uuid.UUID) int {
	t.Helper()

	var count int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE user_id = $1", table)
	if err := pool.QueryRow(context.Background(), query, userID).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

// UserBalance reads the user's committed balance directly.
func UserBalance(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) float64 {
	t.Helper()

	var balance float64
	if err := pool.QueryRow(context.Background(), `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return balance
}
