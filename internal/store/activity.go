package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ActivityEntry is one line of a user's activity feed, such as an earned
// achievement or a level-up.
type ActivityEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityStore defines the interface for the activity feed.
type ActivityStore interface {
	// Create appends an entry. Entries with an existing ID are ignored.
	Create(ctx context.Context, entry *ActivityEntry) error

	// ListRecent returns up to limit of the user's entries, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*ActivityEntry, error)

	// WithTx returns an ActivityStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ActivityStore
}
