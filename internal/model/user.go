package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront account. Balance is prepaid credit debited
// only by the purchase transaction.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Balance   float64   `json:"balance" db:"balance"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Session is a bearer-token session row. Sessions are created by the external
// auth provider; this API only verifies and revokes them.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// ProfileResponse is returned by GET /api/profile. The balance here is the
// single authoritative value clients should reconcile against.
type ProfileResponse struct {
	User User `json:"user"`
}
