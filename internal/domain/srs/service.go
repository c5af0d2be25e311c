package srs

import (
	"errors"
	"slices"
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// Scheduling errors.
var (
	ErrItemNotFound            = errors.New("review item not found")
	ErrNotAReviewItem          = errors.New("task is not a review item")
	ErrInvalidDifficultyRating = errors.New("difficulty rating must be between 1 and 5")
)

// ReviewResult is the outcome of completing a review.
type ReviewResult struct {
	Item                *domain.Task
	DaysUntilNextReview int
}

// Scheduler computes spaced-repetition review schedules for review items.
// Implementations are pure: they never modify their inputs and hold no
// per-user state, so one Scheduler can be shared by all requests.
type Scheduler interface {
	// CompleteReview records a completed review of item at now and schedules
	// the next one. difficultyRating is optional; see Params.StrictDifficulty
	// for how out-of-range values are handled.
	CompleteReview(item *domain.Task, difficultyRating *int, now time.Time) (*ReviewResult, error)

	// ListDue returns the review items in items that are due at now and not
	// completed, most overdue first.
	ListDue(items []*domain.Task, now time.Time) []*domain.Task
}

// defaultScheduler is the standard implementation of Scheduler.
type defaultScheduler struct {
	params *Params
}

// NewDefaultScheduler creates a Scheduler with default parameters.
func NewDefaultScheduler() Scheduler {
	return &defaultScheduler{params: NewDefaultParams()}
}

// NewSchedulerWithParams creates a Scheduler with custom parameters.
// A nil params falls back to the defaults.
func NewSchedulerWithParams(params *Params) Scheduler {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultScheduler{params: params}
}

// CompleteReview implements Scheduler.
func (s *defaultScheduler) CompleteReview(
	item *domain.Task,
	difficultyRating *int,
	now time.Time,
) (*ReviewResult, error) {
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.IsReviewTask {
		return nil, ErrNotAReviewItem
	}

	rating, err := resolveRating(item.DifficultyRating, difficultyRating, s.params)
	if err != nil {
		return nil, err
	}

	next, days := calculateNextReview(item, rating, now, s.params)
	return &ReviewResult{Item: next, DaysUntilNextReview: days}, nil
}

// ListDue implements Scheduler.
func (s *defaultScheduler) ListDue(items []*domain.Task, now time.Time) []*domain.Task {
	due := make([]*domain.Task, 0, len(items))
	for _, item := range items {
		if item == nil || !item.IsReviewTask || item.IsCompleted() {
			continue
		}
		if item.NextReviewAt.After(now) {
			continue
		}
		due = append(due, item)
	}

	slices.SortStableFunc(due, func(a, b *domain.Task) int {
		return a.NextReviewAt.Compare(b.NextReviewAt)
	})
	return due
}
