package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority ranks a task and drives the base points awarded on completion.
type Priority string

// Supported priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the progress state of a task.
type TaskStatus string

// Supported statuses.
const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Difficulty ratings run from 1 (easiest) to 5 (hardest).
const (
	MinDifficultyRating     = 1
	MaxDifficultyRating     = 5
	DefaultDifficultyRating = 3

	maxSubjectLength = 200
)

// Task validation errors.
var (
	ErrEmptyTaskUserID            = errors.New("task user ID cannot be empty")
	ErrEmptyTaskSubject           = errors.New("task subject cannot be empty")
	ErrTaskSubjectTooLong         = errors.New("task subject must be at most 200 characters")
	ErrInvalidTaskPriority        = errors.New("invalid task priority")
	ErrInvalidTaskStatus          = errors.New("invalid task status")
	ErrInvalidReviewLevel         = errors.New("review level cannot be negative")
	ErrDifficultyRatingOutOfRange = errors.New("difficulty rating must be between 1 and 5")
)

// Task is a unit of study work owned by one user. A task with IsReviewTask
// set is a review item: its review fields are advanced by the srs scheduler
// each time the user completes a review of it.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      TaskStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	IsReviewTask     bool       `json:"is_review_task"`
	ReviewLevel      int        `json:"review_level"`
	LastReviewedAt   *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt     time.Time  `json:"next_review_at"`
	DifficultyRating int        `json:"difficulty_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a validated, not-started task. Review tasks start at level 0
// and are due immediately. An empty priority defaults to medium.
func NewTask(
	userID uuid.UUID,
	subject, description string,
	priority Priority,
	dueAt *time.Time,
	isReviewTask bool,
	now time.Time,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	task := &Task{
		ID:               uuid.New(),
		UserID:           userID,
		Subject:          strings.TrimSpace(subject),
		Description:      description,
		Priority:         priority,
		DueAt:            copyTime(dueAt),
		Status:           TaskStatusNotStarted,
		IsReviewTask:     isReviewTask,
		ReviewLevel:      0,
		NextReviewAt:     now,
		DifficultyRating: DefaultDifficultyRating,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks that the task's fields are within their allowed ranges.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if t.Subject == "" {
		return ErrEmptyTaskSubject
	}
	if len(t.Subject) > maxSubjectLength {
		return ErrTaskSubjectTooLong
	}
	if !t.Priority.Valid() {
		return ErrInvalidTaskPriority
	}
	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}
	if t.ReviewLevel < 0 {
		return ErrInvalidReviewLevel
	}
	if !ValidDifficultyRating(t.DifficultyRating) {
		return ErrDifficultyRatingOutOfRange
	}
	return nil
}

// IsCompleted reports whether the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// MarkCompleted sets the task's status to completed at now.
func (t *Task) MarkCompleted(now time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.DueAt = copyTime(t.DueAt)
	c.CompletedAt = copyTime(t.CompletedAt)
	c.LastReviewedAt = copyTime(t.LastReviewedAt)
	return &c
}

// ValidDifficultyRating reports whether r lies in [1,5].
func ValidDifficultyRating(r int) bool {
	return r >= MinDifficultyRating && r <= MaxDifficultyRating
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
