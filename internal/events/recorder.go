package events

import (
	"context"
	"fmt"

	"github.com/phrazzld/scholar-api/internal/store"
)

// ActivityRecorder is an EventHandler that appends events to the activity feed.
type ActivityRecorder struct {
	activities store.ActivityStore
}

// NewActivityRecorder creates a recorder backed by activities.
func NewActivityRecorder(activities store.ActivityStore) *ActivityRecorder {
	if activities == nil {
		panic("activities cannot be nil")
	}
	return &ActivityRecorder{activities: activities}
}

var _ EventHandler = (*ActivityRecorder)(nil)

// HandleEvent implements EventHandler.
func (r *ActivityRecorder) HandleEvent(ctx context.Context, event *ActivityEvent) error {
	entry := &store.ActivityEntry{
		ID:         event.ID,
		UserID:     event.UserID,
		Kind:       event.Kind,
		Title:      event.Title,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt,
	}
	if err := r.activities.Create(ctx, entry); err != nil {
		return fmt.Errorf("record %s activity: %w", event.Kind, err)
	}
	return nil
}
