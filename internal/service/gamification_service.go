package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// Leaderboard and activity feed page sizes.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 50
	DefaultActivityLimit    = 20
)

// ProfileSummary is a profile together with the values derived from it.
type ProfileSummary struct {
	Profile      *domain.Profile         `json:"profile"`
	NextLevelAt  int                     `json:"next_level_at"`
	Achievements []gamification.Progress `json:"achievements"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	UserID       uuid.UUID `json:"user_id"`
	Points       int       `json:"points"`
	Level        int       `json:"level"`
	StreakDays   int       `json:"streak_days"`
	Achievements int       `json:"achievements"`
}

// GamificationService records scoring events against persisted profiles.
type GamificationService interface {
	// GetProfile returns the user's profile, creating the starting profile
	// on first access.
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSummary, error)

	// RecordEvent applies event to the user's profile in its own transaction
	// and publishes the resulting activity.
	RecordEvent(ctx context.Context, userID uuid.UUID, event gamification.Event) (*gamification.Outcome, error)

	// RecordEventTx applies event inside tx, which the caller owns. The
	// caller must pass the outcome to PublishOutcome once tx has committed.
	RecordEventTx(
		ctx context.Context,
		tx *sql.Tx,
		userID uuid.UUID,
		event gamification.Event,
		now time.Time,
	) (*gamification.Outcome, error)

	// PublishOutcome emits activity events for achievements, level-ups and
	// streak milestones contained in outcome.
	PublishOutcome(ctx context.Context, userID uuid.UUID, outcome *gamification.Outcome, now time.Time)

	// Leaderboard returns the top profiles by points then level. limit
	// defaults to DefaultLeaderboardLimit and is capped at MaxLeaderboardLimit.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// RecentActivity returns the user's activity feed, newest first.
	RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*store.ActivityEntry, error)
}

type gamificationServiceImpl struct {
	db         *sql.DB
	profiles   store.ProfileStore
	activities store.ActivityStore
	engine     gamification.Engine
	emitter    events.EventEmitter
	clock      func() time.Time
	logger     *slog.Logger
}

var _ GamificationService = (*gamificationServiceImpl)(nil)

// NewGamificationService creates a GamificationService.
// It returns an error if any of the required dependencies are nil.
func NewGamificationService(
	db *sql.DB,
	profiles store.ProfileStore,
	activities store.ActivityStore,
	engine gamification.Engine,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (GamificationService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if profiles == nil {
		return nil, domain.NewValidationError("profiles", "cannot be nil", domain.ErrValidation)
	}
	if activities == nil {
		return nil, domain.NewValidationError("activities", "cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &gamificationServiceImpl{
		db:         db,
		profiles:   profiles,
		activities: activities,
		engine:     engine,
		emitter:    emitter,
		clock:      time.Now,
		logger:     logger.With(slog.String("component", "gamification_service")),
	}, nil
}

// GetProfile implements GamificationService.GetProfile
func (s *gamificationServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		p, err = s.createProfile(ctx, userID)
	}
	if err != nil {
		log.Error("failed to load profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_profile", "failed to load profile", err)
	}

	return &ProfileSummary{
		Profile:      p,
		NextLevelAt:  s.engine.NextLevelAt(p.Level),
		Achievements: gamification.AchievementProgress(p, s.engine.Catalog()),
	}, nil
}

// createProfile stores a starting profile outside any transaction. Losing
// the insert race to a concurrent request is fine: the winner's row is read.
func (s *gamificationServiceImpl) createProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.engine.NewProfile(userID, s.clock().UTC())
	if err != nil {
		return nil, err
	}
	err = s.profiles.Create(ctx, p)
	if errors.Is(err, store.ErrDuplicate) {
		return s.profiles.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RecordEvent implements GamificationService.RecordEvent
func (s *gamificationServiceImpl) RecordEvent(
	ctx context.Context,
	userID uuid.UUID,
	event gamification.Event,
) (*gamification.Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock().UTC()

	var outcome *gamification.Outcome
	err := retryOnConflict(ctx, func() error {
		return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			var err error
			outcome, err = s.RecordEventTx(ctx, tx, userID, event, now)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, gamification.ErrUnknownEvent) {
			return nil, err
		}
		log.Error("failed to record gamification event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("event", string(event.Type)))
		return nil, NewServiceError("record_event", "failed to record event", err)
	}

	s.PublishOutcome(ctx, userID, outcome, now)
	return outcome, nil
}

// RecordEventTx implements GamificationService.RecordEventTx
func (s *gamificationServiceImpl) RecordEventTx(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	event gamification.Event,
	now time.Time,
) (*gamification.Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	profiles := s.profiles.WithTx(tx)

	p, err := profiles.GetForUpdate(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		p, err = s.engine.NewProfile(userID, now)
		if err != nil {
			return nil, err
		}
		if err = profiles.Create(ctx, p); errors.Is(err, store.ErrDuplicate) {
			// A concurrent request created it first; the transaction is
			// aborted, so start over.
			return nil, fmt.Errorf("%w: %w", store.ErrConcurrentModification, err)
		}
	}
	if err != nil {
		return nil, err
	}

	outcome, err := s.engine.RecordEvent(p, event, now)
	if err != nil {
		return nil, err
	}
	if outcome.AlreadyCheckedIn {
		return outcome, nil
	}

	if err := profiles.Update(ctx, outcome.Profile); err != nil {
		return nil, err
	}

	log.Debug("gamification event recorded",
		slog.String("user_id", userID.String()),
		slog.String("event", string(event.Type)),
		slog.Int("points_awarded", outcome.PointsAwarded),
		slog.Int("level", outcome.NewLevel))
	return outcome, nil
}

// PublishOutcome implements GamificationService.PublishOutcome
// Emission failures are logged and never returned.
func (s *gamificationServiceImpl) PublishOutcome(
	ctx context.Context,
	userID uuid.UUID,
	outcome *gamification.Outcome,
	now time.Time,
) {
	if outcome == nil || outcome.AlreadyCheckedIn {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var pending []*events.ActivityEvent
	for _, a := range outcome.NewAchievements {
		pending = append(pending, events.NewActivityEvent(
			userID, events.KindAchievementEarned, a.Name, a.Description, now))
	}
	if outcome.LeveledUp {
		pending = append(pending, events.NewActivityEvent(
			userID, events.KindLevelUp, fmt.Sprintf("Reached level %d", outcome.NewLevel), "", now))
	}
	if streak := outcome.Profile.StreakDays; outcome.Streak == gamification.StreakContinued && streak%7 == 0 {
		pending = append(pending, events.NewActivityEvent(
			userID, events.KindStreakMilestone, fmt.Sprintf("%d-day streak", streak), "", now))
	}

	for _, ev := range pending {
		if err := s.emitter.EmitEvent(ctx, ev); err != nil {
			log.Warn("failed to publish activity",
				slog.String("error", err.Error()),
				slog.String("kind", ev.Kind),
				slog.String("user_id", userID.String()))
		}
	}
}

// Leaderboard implements GamificationService.Leaderboard
func (s *gamificationServiceImpl) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)

	profiles, err := s.profiles.TopByPoints(ctx, limit)
	if err != nil {
		log.Error("failed to load leaderboard", slog.String("error", err.Error()))
		return nil, NewServiceError("leaderboard", "failed to load leaderboard", err)
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:         i + 1,
			UserID:       p.UserID,
			Points:       p.Points,
			Level:        p.Level,
			StreakDays:   p.StreakDays,
			Achievements: p.Achievements.Len(),
		})
	}
	return entries, nil
}

// RecentActivity implements GamificationService.RecentActivity
func (s *gamificationServiceImpl) RecentActivity(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*store.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	entries, err := s.activities.ListRecent(ctx, userID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("recent_activity", "failed to load activity", err)
	}
	return entries, nil
}
