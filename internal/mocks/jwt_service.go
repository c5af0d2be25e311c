package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Defaults used when the Fn fields are nil.
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
	Lifetime    time.Duration
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// TokenLifetime implements auth.JWTService. Defaults to one hour.
func (m *MockJWTService) TokenLifetime() time.Duration {
	if m.Lifetime == 0 {
		return time.Hour
	}
	return m.Lifetime
}
