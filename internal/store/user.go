package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user, hashing a plaintext Password if one is set.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address (case-insensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore that runs its queries in tx.
	WithTx(tx *sql.Tx) UserStore
}
