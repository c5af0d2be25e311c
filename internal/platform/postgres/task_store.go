package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

const taskColumns = `id, user_id, subject, description, priority, due_at, status, completed_at,
	is_review_task, review_level, last_reviewed_at, next_review_at, difficulty_rating,
	created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		priority    string
		status      string
		dueAt       sql.NullTime
		completedAt sql.NullTime
		lastReview  sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Subject,
		&task.Description,
		&priority,
		&dueAt,
		&status,
		&completedAt,
		&task.IsReviewTask,
		&task.ReviewLevel,
		&lastReview,
		&task.NextReviewAt,
		&task.DifficultyRating,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.TaskStatus(status)
	task.DueAt = nullTimePtr(dueAt)
	task.CompletedAt = nullTimePtr(completedAt)
	task.LastReviewedAt = nullTimePtr(lastReview)
	return &task, nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Subject,
		task.Description,
		string(task.Priority),
		task.DueAt,
		string(task.Status),
		task.CompletedAt,
		task.IsReviewTask,
		task.ReviewLevel,
		task.LastReviewedAt,
		task.NextReviewAt,
		task.DifficultyRating,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err, nil)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.Bool("is_review_task", task.IsReviewTask))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.TaskStore.GetForUpdate
func (s *PostgresTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresTaskStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrTaskNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("task not found", slog.String("task_id", id.String()))
		} else {
			log.Error("failed to get task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, mapped
	}
	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{userID}
	if filter.ReviewOnly {
		sb.WriteString(` AND is_review_task`)
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	sb.WriteString(` ORDER BY created_at DESC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET subject = $1, description = $2, priority = $3, due_at = $4, status = $5,
			completed_at = $6, is_review_task = $7, review_level = $8, last_reviewed_at = $9,
			next_review_at = $10, difficulty_rating = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Subject,
		task.Description,
		string(task.Priority),
		task.DueAt,
		string(task.Status),
		task.CompletedAt,
		task.IsReviewTask,
		task.ReviewLevel,
		task.LastReviewedAt,
		task.NextReviewAt,
		task.DifficultyRating,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, nil)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err, nil)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// CountByUser implements store.TaskStore.CountByUser
// "Today" is the calendar day of now in now's location.
func (s *PostgresTaskStore) CountByUser(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*store.TaskCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status <> 'completed'),
			COUNT(*) FILTER (WHERE due_at >= $2 AND due_at < $3),
			COUNT(*) FILTER (WHERE status <> 'completed' AND due_at < $4),
			COUNT(*) FILTER (WHERE status <> 'completed' AND due_at >= $3),
			COUNT(*) FILTER (WHERE is_review_task AND next_review_at <= $4)
		FROM tasks
		WHERE user_id = $1
	`

	var c store.TaskCounts
	err := s.db.QueryRowContext(ctx, query, userID, today, tomorrow, now).Scan(
		&c.Total,
		&c.Completed,
		&c.Pending,
		&c.DueToday,
		&c.Overdue,
		&c.Upcoming,
		&c.ReviewsDue,
	)
	if err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}
	return &c, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
