package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
)

// ProfileStore defines the interface for gamification profile persistence.
type ProfileStore interface {
	// Get retrieves the profile of a user without locking it.
	// Returns ErrProfileNotFound if the user has none yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetForUpdate retrieves a profile and locks its row until the
	// surrounding transaction ends. Must be called on a store returned by
	// WithTx. Returns ErrProfileNotFound if the user has none yet.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Create saves a new profile with version 1.
	// Returns ErrDuplicate if the user already has a profile.
	Create(ctx context.Context, profile *domain.Profile) error

	// Update saves profile if its Version still matches the stored version
	// and increments Version on success.
	// Returns ErrConcurrentModification on a version mismatch and
	// ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// TopByPoints returns up to limit profiles ordered by points, then level,
	// both descending.
	TopByPoints(ctx context.Context, limit int) ([]*domain.Profile, error)

	// WithTx returns a ProfileStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ProfileStore
}
