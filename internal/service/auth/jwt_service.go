// Package auth issues and validates the bearer tokens that identify a user
// on every API request, and verifies bcrypt password hashes at login.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature, type and lifetime of tokenString and
	// returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports how long issued tokens remain valid.
	TokenLifetime() time.Duration
}

// Claims are the validated contents of an access token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
