package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity kinds.
const (
	KindAchievementEarned = "achievement_earned"
	KindLevelUp           = "level_up"
	KindStreakMilestone   = "streak_milestone"
)

// ActivityEvent is a noteworthy change to a user's progress.
type ActivityEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent creates an event with a fresh ID.
func NewActivityEvent(userID uuid.UUID, kind, title, detail string, occurredAt time.Time) *ActivityEvent {
	return &ActivityEvent{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Detail:     detail,
		OccurredAt: occurredAt,
	}
}

// EventHandler processes emitted events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *ActivityEvent) error
}

// EventEmitter publishes events to every registered handler.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *ActivityEvent) error
}
