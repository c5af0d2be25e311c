// Package events carries activity events (earned achievements, level-ups,
// streak milestones) from the services to any registered handlers without
// the services knowing who consumes them. The ActivityRecorder handler
// persists them as the user's activity feed.
package events
