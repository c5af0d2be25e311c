package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/service"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Subject      string     `json:"subject"        validate:"required,max=200"`
	Description  string     `json:"description"    validate:"max=5000"`
	Priority     string     `json:"priority"       validate:"omitempty,oneof=low medium high"`
	DueAt        *time.Time `json:"due_at"`
	IsReviewTask bool       `json:"is_review_task"`
	Status       string     `json:"status"         validate:"omitempty,oneof=not_started in_progress completed"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Omitted fields keep
// their current values.
type UpdateTaskRequest struct {
	Subject     *string    `json:"subject"     validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueAt       *time.Time `json:"due_at"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=not_started in_progress completed"`
}

func (r UpdateTaskRequest) toInput() service.UpdateTaskInput {
	in := service.UpdateTaskInput{
		Subject:     r.Subject,
		Description: r.Description,
		DueAt:       r.DueAt,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		in.Priority = &p
	}
	if r.Status != nil {
		st := domain.TaskStatus(*r.Status)
		in.Status = &st
	}
	return in
}

// CompleteTaskResponse reports a completed task and what it earned.
type CompleteTaskResponse struct {
	Task            *domain.Task         `json:"task"`
	PointsAwarded   int                  `json:"points_awarded"`
	LeveledUp       bool                 `json:"leveled_up"`
	Level           int                  `json:"level"`
	NewAchievements []domain.Achievement `json:"new_achievements"`
}

// CompleteReviewRequest is the body of POST /reviews/{id}/complete. A missing
// rating keeps the task's current one.
type CompleteReviewRequest struct {
	DifficultyRating *int `json:"difficulty_rating"`
}

// CompleteReviewResponse reports the rescheduled review task.
type CompleteReviewResponse struct {
	Task                *domain.Task `json:"task"`
	DaysUntilNextReview int          `json:"days_until_next_review"`
}

// PomodoroRequest is the body of POST /gamification/pomodoro.
type PomodoroRequest struct {
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=1440"`
	SessionType     string `json:"session_type"     validate:"omitempty,oneof=work short_break long_break"`
}

// FlashcardsRequest is the body of POST /gamification/flashcards.
type FlashcardsRequest struct {
	Count int `json:"count" validate:"gte=0,lte=10000"`
}

// OutcomeResponse reports the effect of a gamification event.
type OutcomeResponse struct {
	Message          string               `json:"message,omitempty"`
	PointsAwarded    int                  `json:"points_awarded"`
	Points           int                  `json:"points"`
	Level            int                  `json:"level"`
	LeveledUp        bool                 `json:"leveled_up"`
	StreakDays       int                  `json:"streak_days"`
	AlreadyCheckedIn bool                 `json:"already_checked_in"`
	NewAchievements  []domain.Achievement `json:"new_achievements"`
}

func newOutcomeResponse(o *gamification.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		PointsAwarded:    o.PointsAwarded,
		LeveledUp:        o.LeveledUp,
		Level:            o.NewLevel,
		NewAchievements:  o.NewAchievements,
		AlreadyCheckedIn: o.AlreadyCheckedIn,
	}
	if o.Profile != nil {
		resp.Points = o.Profile.Points
		resp.StreakDays = o.Profile.StreakDays
	}
	if resp.NewAchievements == nil {
		resp.NewAchievements = []domain.Achievement{}
	}
	return resp
}
