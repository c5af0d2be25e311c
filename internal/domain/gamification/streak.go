package gamification

import "time"

// StreakStatus describes what a streak-bearing event did to the streak.
type StreakStatus string

const (
	// StreakUnchanged means the user was already active that calendar day.
	StreakUnchanged StreakStatus = "unchanged"
	// StreakStarted means this is the user's first recorded activity.
	StreakStarted StreakStatus = "started"
	// StreakContinued means the user was active the previous calendar day.
	StreakContinued StreakStatus = "continued"
	// StreakReset means at least one calendar day was missed.
	StreakReset StreakStatus = "reset"
)

// advanceStreak applies one day of activity at now to a streak whose last
// activity was at last, comparing calendar days in loc.
// It returns the new streak length and what happened.
func advanceStreak(streak int, last *time.Time, now time.Time, loc *time.Location) (int, StreakStatus) {
	if last == nil {
		return 1, StreakStarted
	}

	today := calendarDate(now, loc)
	lastDay := calendarDate(*last, loc)

	switch {
	case !today.After(lastDay):
		// Same day, or a clock that went backwards.
		return streak, StreakUnchanged
	case lastDay.AddDate(0, 0, 1).Equal(today):
		return streak + 1, StreakContinued
	default:
		return 1, StreakReset
	}
}

// calendarDate returns the date of t in loc as midnight UTC, so day
// arithmetic is not skewed by DST changes that happen at local midnight.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfDay truncates t to local midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
