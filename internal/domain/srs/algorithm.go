package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

const hoursPerDay = 24

// resolveRating decides which difficulty rating a review uses.
//
// Parameters:
//   - current: The rating stored on the item from its previous review
//   - provided: The rating submitted with this review, or nil
//   - params: Scheduling parameters (only StrictDifficulty is consulted)
//
// Returns:
//   - The rating to store and schedule with
//   - ErrInvalidDifficultyRating when strict mode is on and provided is out of range
//
// In the default permissive mode an out-of-range rating is ignored and the
// previous rating is kept.
func resolveRating(current int, provided *int, params *Params) (int, error) {
	if provided == nil {
		return current, nil
	}
	if domain.ValidDifficultyRating(*provided) {
		return *provided, nil
	}
	if params.StrictDifficulty {
		return 0, ErrInvalidDifficultyRating
	}
	return current, nil
}

// calculateEaseFactor maps a difficulty rating to an interval multiplier.
// Ratings above neutral shrink the factor, ratings below grow it:
// with defaults, 1 → 3.1, 3 → 2.5, 5 → 1.9.
func calculateEaseFactor(rating int, params *Params) float64 {
	return params.BaseEaseFactor - params.EaseFactorStep*float64(rating-params.NeutralRating)
}

// elapsedDays returns the whole number of days between the previous review
// and now, rounded to the nearest day. A missing previous review, or one
// that lies in the future, counts as zero days.
func elapsedDays(previous *time.Time, now time.Time) int {
	if previous == nil {
		return 0
	}
	days := math.Round(now.Sub(*previous).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return int(days)
}

// calculateBaseInterval determines the interval before the difficulty
// modifier is applied.
//
// Parameters:
//   - level: The review level after this review has been counted (1 or more)
//   - previousDays: Days elapsed since the previous review, see elapsedDays
//   - rating: The difficulty rating in effect for this review
//   - params: Scheduling parameters
//
// Algorithm behavior:
//   - Level 1: FirstReviewInterval (1 day by default)
//   - Level 2: SecondReviewInterval (3 days by default)
//   - Level 3+: the real time elapsed since the previous review, scaled by
//     the ease factor and rounded, never less than one day
//
// Growth is based on elapsed time rather than the previously scheduled
// interval, so reviewing late stretches the next interval accordingly.
func calculateBaseInterval(level, previousDays, rating int, params *Params) int {
	switch level {
	case 1:
		return params.FirstReviewInterval
	case 2:
		return params.SecondReviewInterval
	}

	days := int(math.Round(float64(previousDays) * calculateEaseFactor(rating, params)))
	return max(1, days)
}

// applyDifficultyModifier adjusts an interval for how hard the item felt.
// Hard ratings (4-5) shorten it to no less than one day; easy ratings (1-2)
// lengthen it, rounding up; the neutral rating leaves it unchanged.
func applyDifficultyModifier(days, rating int, params *Params) int {
	switch {
	case rating > params.NeutralRating:
		return max(1, int(math.Floor(float64(days)*params.HardIntervalMultiplier)))
	case rating < params.NeutralRating:
		return int(math.Ceil(float64(days) * params.EasyIntervalMultiplier))
	default:
		return days
	}
}

// calculateNextReview produces the post-review copy of item.
//
// Parameters:
//   - item: The review item as last persisted; it is not modified
//   - rating: The already-resolved difficulty rating for this review
//   - now: The time the review was completed
//   - params: Scheduling parameters
//
// Returns:
//   - A new task with updated rating, review level and review timestamps
//   - The number of days until the next review
//
// The previous LastReviewedAt is captured before it is overwritten so the
// elapsed-time rule for level 3+ measures the real gap between reviews.
func calculateNextReview(
	item *domain.Task,
	rating int,
	now time.Time,
	params *Params,
) (*domain.Task, int) {
	next := item.Clone()
	previousReviewedAt := item.LastReviewedAt

	next.DifficultyRating = rating
	next.LastReviewedAt = &now
	next.ReviewLevel = item.ReviewLevel + 1

	days := calculateBaseInterval(next.ReviewLevel, elapsedDays(previousReviewedAt, now), rating, params)
	days = applyDifficultyModifier(days, rating, params)

	next.NextReviewAt = now.AddDate(0, 0, days)
	next.UpdatedAt = now

	return next, days
}
