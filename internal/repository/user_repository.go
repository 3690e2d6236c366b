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

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

const userColumns = `id, email, full_name, balance, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Balance, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// GetBySessionToken resolves a bearer token to its user. Expired sessions are
// treated as missing.
func (r *userRepository) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.balance, u.is_admin, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now()
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to resolve session token")
		return nil, fmt.Errorf("failed to resolve session token: %w", err)
	}

	return user, nil
}

// DeleteSession revokes a session token.
func (r *userRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetBalance returns the user's current balance.
func (r *userRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	var balance float64
	err := r.pool.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %s not found", userID)
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query balance")
		return 0, fmt.Errorf("failed to query balance: %w", err)
	}
	return balance, nil
}
