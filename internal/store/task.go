package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
)

// TaskFilter narrows ListByUser results. Zero values match everything.
type TaskFilter struct {
	ReviewOnly bool
	Status     domain.TaskStatus
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate retrieves a task and locks its row until the surrounding
	// transaction ends. Must be called on a store returned by WithTx.
	// Returns ErrTaskNotFound if the task does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser returns the user's tasks matching filter, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists every mutable field of task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByUser aggregates the user's task counts relative to now.
	CountByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*TaskCounts, error)

	// WithTx returns a TaskStore that runs its queries in tx.
	WithTx(tx *sql.Tx) TaskStore
}

// TaskCounts summarises a user's tasks for the dashboard.
type TaskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	DueToday   int `json:"due_today"`
	Overdue    int `json:"overdue"`
	Upcoming   int `json:"upcoming"`
	ReviewsDue int `json:"reviews_due"`
}
