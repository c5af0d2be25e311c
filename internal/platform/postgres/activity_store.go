package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// maxActivityLimit caps a single feed page.
const maxActivityLimit = 100

// PostgresActivityStore implements the store.ActivityStore interface.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Create implements store.ActivityStore.Create
func (s *PostgresActivityStore) Create(ctx context.Context, entry *store.ActivityEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO activity_log (id, user_id, kind, title, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Kind,
		entry.Title,
		entry.Detail,
		entry.OccurredAt,
	)
	if err != nil {
		log.Error("failed to record activity",
			slog.String("error", err.Error()),
			slog.String("kind", entry.Kind),
			slog.String("user_id", entry.UserID.String()))
		return MapError(err, nil)
	}
	return nil
}

// ListRecent implements store.ActivityStore.ListRecent
func (s *PostgresActivityStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*store.ActivityEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	query := `
		SELECT id, user_id, kind, title, detail, occurred_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*store.ActivityEntry{}
	for rows.Next() {
		var e store.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Title, &e.Detail, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
