package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// ReviewService schedules spaced-repetition reviews of a user's review tasks.
type ReviewService interface {
	// CompleteReview records a review of the task rated difficultyRating
	// (nil keeps the task's current rating) and schedules the next one.
	CompleteReview(
		ctx context.Context,
		userID, taskID uuid.UUID,
		difficultyRating *int,
	) (*srs.ReviewResult, error)

	// ListDue returns the user's review tasks due now, earliest first.
	ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}

type reviewServiceImpl struct {
	db        *sql.DB
	tasks     store.TaskStore
	scheduler srs.Scheduler
	clock     func() time.Time
	logger    *slog.Logger
}

var _ ReviewService = (*reviewServiceImpl)(nil)

// NewReviewService creates a ReviewService.
// It returns an error if any of the required dependencies are nil.
func NewReviewService(
	db *sql.DB,
	tasks store.TaskStore,
	scheduler srs.Scheduler,
	logger *slog.Logger,
) (ReviewService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if scheduler == nil {
		return nil, domain.NewValidationError("scheduler", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:        db,
		tasks:     tasks,
		scheduler: scheduler,
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "review_service")),
	}, nil
}

// CompleteReview implements ReviewService.CompleteReview
func (s *reviewServiceImpl) CompleteReview(
	ctx context.Context,
	userID, taskID uuid.UUID,
	difficultyRating *int,
) (*srs.ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock().UTC()

	var result *srs.ReviewResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.UserID != userID {
			log.Warn("user does not own review task",
				slog.String("user_id", userID.String()),
				slog.String("task_id", taskID.String()))
			return ErrNotOwned
		}

		result, err = s.scheduler.CompleteReview(task, difficultyRating, now)
		if err != nil {
			return err
		}
		return txTasks.Update(ctx, result.Item)
	})
	if err != nil {
		if isExpected(err) {
			return nil, err
		}
		log.Error("failed to complete review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("task_id", taskID.String()))
		return nil, NewServiceError("complete_review", "failed to complete review", err)
	}

	log.Debug("review completed",
		slog.String("task_id", taskID.String()),
		slog.Int("review_level", result.Item.ReviewLevel),
		slog.Int("days_until_next_review", result.DaysUntilNextReview),
		slog.Time("next_review_at", result.Item.NextReviewAt))
	return result, nil
}

// ListDue implements ReviewService.ListDue
func (s *reviewServiceImpl) ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	items, err := s.tasks.ListByUser(ctx, userID, store.TaskFilter{ReviewOnly: true})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list review tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_due_reviews", "failed to list review tasks", err)
	}
	return s.scheduler.ListDue(items, s.clock().UTC()), nil
}
