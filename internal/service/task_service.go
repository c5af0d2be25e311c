package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// CreateTaskInput carries the user-supplied fields of a new task.
type CreateTaskInput struct {
	Subject      string
	Description  string
	Priority     domain.Priority
	DueAt        *time.Time
	IsReviewTask bool
	// Status defaults to not started. Completed is rejected.
	Status domain.TaskStatus
}

// UpdateTaskInput carries the fields to change. Nil fields are left as they
// are.
type UpdateTaskInput struct {
	Subject     *string
	Description *string
	Priority    *domain.Priority
	DueAt       *time.Time
	Status      *domain.TaskStatus
}

func (in UpdateTaskInput) apply(task *domain.Task, now time.Time) {
	if in.Subject != nil {
		task.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueAt != nil {
		due := *in.DueAt
		task.DueAt = &due
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	task.UpdatedAt = now
}

// TaskCompletion is the result of completing a task: the stored task and
// what the completion earned.
type TaskCompletion struct {
	Task    *domain.Task          `json:"task"`
	Outcome *gamification.Outcome `json:"-"`
}

// TaskService manages a user's study tasks.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	// GetTask returns ErrNotOwned when the task belongs to someone else.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	// UpdateTask edits a task's details or moves it between not started and
	// in progress. It returns ErrCompletionRequired for the completed status
	// and ErrTaskAlreadyCompleted when reopening a completed task.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error)
	// CompleteTask marks the task completed and records the completion on
	// the user's gamification profile in the same transaction.
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*TaskCompletion, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	// TaskStats counts the user's tasks relative to the current day.
	TaskStats(ctx context.Context, userID uuid.UUID) (*store.TaskCounts, error)
}

type taskServiceImpl struct {
	db           *sql.DB
	tasks        store.TaskStore
	gamification GamificationService
	location     *time.Location
	clock        func() time.Time
	logger       *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService. loc is the time zone "today" is
// evaluated in for TaskStats; nil means UTC.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	gamificationSvc GamificationService,
	loc *time.Location,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if gamificationSvc == nil {
		return nil, domain.NewValidationError("gamification", "cannot be nil", domain.ErrValidation)
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:           db,
		tasks:        tasks,
		gamification: gamificationSvc,
		location:     loc,
		clock:        time.Now,
		logger:       logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Status == domain.TaskStatusCompleted {
		return nil, ErrCompletionRequired
	}

	task, err := domain.NewTask(
		userID,
		input.Subject,
		input.Description,
		input.Priority,
		input.DueAt,
		input.IsReviewTask,
		s.clock().UTC(),
	)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, domain.ErrInvalidTaskStatus
		}
		task.Status = input.Status
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Bool("is_review_task", task.IsReviewTask))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.wrapLookupError(ctx, "get_task", taskID, err)
	}
	if task.UserID != userID {
		return nil, ErrNotOwned
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	tasks, err := s.tasks.ListByUser(ctx, userID, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	if input.Status != nil && *input.Status == domain.TaskStatusCompleted {
		return nil, ErrCompletionRequired
	}
	now := s.clock().UTC()

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.UserID != userID {
			return ErrNotOwned
		}
		if input.Status != nil && task.IsCompleted() {
			return ErrTaskAlreadyCompleted
		}

		input.apply(task, now)
		if err := task.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.wrapLookupError(ctx, "update_task", taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*TaskCompletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock().UTC()

	var completion *TaskCompletion
	err := retryOnConflict(ctx, func() error {
		return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			txTasks := s.tasks.WithTx(tx)

			task, err := txTasks.GetForUpdate(ctx, taskID)
			if err != nil {
				return err
			}
			if task.UserID != userID {
				return ErrNotOwned
			}
			if task.IsCompleted() {
				return ErrTaskAlreadyCompleted
			}

			task.MarkCompleted(now)
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}

			outcome, err := s.gamification.RecordEventTx(ctx, tx, userID, gamification.NewTaskCompletedEvent(task), now)
			if err != nil {
				return err
			}

			completion = &TaskCompletion{Task: task, Outcome: outcome}
			return nil
		})
	})
	if err != nil {
		return nil, s.wrapLookupError(ctx, "complete_task", taskID, err)
	}

	s.gamification.PublishOutcome(ctx, userID, completion.Outcome, now)

	log.Info("task completed",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("points_awarded", completion.Outcome.PointsAwarded))
	return completion, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.UserID != userID {
			return ErrNotOwned
		}
		return txTasks.Delete(ctx, taskID)
	})
	if err != nil {
		return s.wrapLookupError(ctx, "delete_task", taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// TaskStats implements TaskService.TaskStats
func (s *taskServiceImpl) TaskStats(ctx context.Context, userID uuid.UUID) (*store.TaskCounts, error) {
	counts, err := s.tasks.CountByUser(ctx, userID, s.clock().In(s.location))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("task_stats", "failed to count tasks", err)
	}
	return counts, nil
}

// wrapLookupError passes expected conditions through unchanged and wraps
// everything else in a ServiceError.
func (s *taskServiceImpl) wrapLookupError(ctx context.Context, op string, taskID uuid.UUID, err error) error {
	if isExpected(err) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("task_id", taskID.String()))
	return NewServiceError(op, "task operation failed", err)
}
