package gamification

import (
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// EventType identifies something a user did that may score.
type EventType string

// Event types.
const (
	EventTaskCompleted     EventType = "task_completed"
	EventReviewCompleted   EventType = "review_completed"
	EventPomodoroCompleted EventType = "pomodoro_completed"
	EventFlashcardReviewed EventType = "flashcard_reviewed"
	EventDailyCheckIn      EventType = "daily_check_in"
)

// SessionType distinguishes focus sessions from breaks in the pomodoro timer.
type SessionType string

// Pomodoro session types. An empty SessionType counts as work.
const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// Event is a scoring event. Only the fields relevant to Type are read.
type Event struct {
	Type EventType

	// Task and review completions.
	Priority     domain.Priority
	IsReviewTask bool
	DueAt        *time.Time

	// Pomodoro completions.
	DurationMinutes int
	SessionType     SessionType

	// Flashcard reviews.
	Count int
}

// NewTaskCompletedEvent describes the completion of task.
func NewTaskCompletedEvent(task *domain.Task) Event {
	return Event{
		Type:         EventTaskCompleted,
		Priority:     task.Priority,
		IsReviewTask: task.IsReviewTask,
		DueAt:        task.DueAt,
	}
}

// NewPomodoroCompletedEvent describes a finished pomodoro session.
func NewPomodoroCompletedEvent(minutes int, session SessionType) Event {
	return Event{Type: EventPomodoroCompleted, DurationMinutes: minutes, SessionType: session}
}

// NewFlashcardReviewedEvent describes a batch of reviewed flashcards.
func NewFlashcardReviewedEvent(count int) Event {
	return Event{Type: EventFlashcardReviewed, Count: count}
}

// NewDailyCheckInEvent describes a daily check-in.
func NewDailyCheckInEvent() Event {
	return Event{Type: EventDailyCheckIn}
}
