package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

const profileColumns = `user_id, points, experience, level, streak_days, longest_streak,
	last_activity, achievements, daily_history, stats, version, created_at, updated_at`

// PostgresProfileStore implements the store.ProfileStore interface.
// Achievements, daily history and activity counters are stored as JSONB.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p            domain.Profile
		lastActivity sql.NullTime
		achievements []byte
		history      []byte
		stats        []byte
	)

	err := row.Scan(
		&p.UserID,
		&p.Points,
		&p.Experience,
		&p.Level,
		&p.StreakDays,
		&p.LongestStreak,
		&lastActivity,
		&achievements,
		&history,
		&stats,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.LastActivity = nullTimePtr(lastActivity)
	if err := json.Unmarshal(achievements, &p.Achievements); err != nil {
		return nil, fmt.Errorf("decode achievements: %w", err)
	}
	if err := json.Unmarshal(history, &p.DailyHistory); err != nil {
		return nil, fmt.Errorf("decode daily history: %w", err)
	}
	if err := json.Unmarshal(stats, &p.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &p, nil
}

// encodedProfile holds the JSONB columns of a profile.
type encodedProfile struct {
	achievements []byte
	history      []byte
	stats        []byte
}

func encodeProfile(p *domain.Profile) (*encodedProfile, error) {
	achievements, err := json.Marshal(p.Achievements)
	if err != nil {
		return nil, fmt.Errorf("encode achievements: %w", err)
	}
	history, err := json.Marshal(p.DailyHistory)
	if err != nil {
		return nil, fmt.Errorf("encode daily history: %w", err)
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	return &encodedProfile{achievements: achievements, history: history, stats: stats}, nil
}

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.get(ctx, userID, false)
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
func (s *PostgresProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.get(ctx, userID, true)
}

func (s *PostgresProfileStore) get(ctx context.Context, userID uuid.UUID, lock bool) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM gamification_profiles WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		mapped := MapError(err, store.ErrProfileNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to get profile",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, mapped
	}
	return p, nil
}

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}

	query := `INSERT INTO gamification_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12)`

	_, err = s.db.ExecContext(ctx, query,
		p.UserID,
		p.Points,
		p.Experience,
		p.Level,
		p.StreakDays,
		p.LongestStreak,
		p.LastActivity,
		enc.achievements,
		enc.history,
		enc.stats,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()))
		return MapError(err, nil)
	}

	p.Version = 1
	log.Debug("profile created", slog.String("user_id", p.UserID.String()))
	return nil
}

// Update implements store.ProfileStore.Update
func (s *PostgresProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE gamification_profiles
		SET points = $1, experience = $2, level = $3, streak_days = $4, longest_streak = $5,
			last_activity = $6, achievements = $7, daily_history = $8, stats = $9,
			updated_at = $10, version = version + 1
		WHERE user_id = $11 AND version = $12
	`

	result, err := s.db.ExecContext(ctx, query,
		p.Points,
		p.Experience,
		p.Level,
		p.StreakDays,
		p.LongestStreak,
		p.LastActivity,
		enc.achievements,
		enc.history,
		enc.stats,
		p.UpdatedAt,
		p.UserID,
		p.Version,
	)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()))
		return MapError(err, nil)
	}

	err = CheckRowsAffected(result, store.ErrUpdateFailed)
	if errors.Is(err, store.ErrUpdateFailed) {
		// Distinguish a stale version from a missing row.
		var exists bool
		existsErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM gamification_profiles WHERE user_id = $1)`,
			p.UserID,
		).Scan(&exists)
		if existsErr != nil {
			return MapError(existsErr, nil)
		}
		if !exists {
			return store.ErrProfileNotFound
		}
		log.Warn("profile version conflict",
			slog.String("user_id", p.UserID.String()),
			slog.Int("version", p.Version))
		return store.ErrConcurrentModification
	}
	if err != nil {
		return err
	}

	p.Version++
	return nil
}

// TopByPoints implements store.ProfileStore.TopByPoints
func (s *PostgresProfileStore) TopByPoints(ctx context.Context, limit int) ([]*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + profileColumns + ` FROM gamification_profiles
		ORDER BY points DESC, level DESC, user_id
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query leaderboard", slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error("failed to scan profile row", slog.String("error", err.Error()))
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}
