package gamification

import (
	"fmt"
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// Flavor selects how levels are derived and whether achievements pay out.
// A deployment picks one flavor and keeps it; profiles scored under one
// flavor are not rescored under the other.
type Flavor string

const (
	// FlavorPoints derives level linearly from points; achievements are free.
	FlavorPoints Flavor = "points"
	// FlavorExperience derives level from the square root of experience and
	// pays a bonus for every achievement earned.
	FlavorExperience Flavor = "experience"
)

// ParseFlavor converts a configuration string into a Flavor.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(s) {
	case FlavorPoints, FlavorExperience:
		return Flavor(s), nil
	case "":
		return FlavorPoints, nil
	}
	return "", fmt.Errorf("unknown gamification flavor %q", s)
}

// Params defines the scoring constants of the engine.
type Params struct {
	Flavor Flavor

	// TaskPoints is the base award per priority; unknown priorities get
	// DefaultTaskPoints.
	TaskPoints        map[domain.Priority]int
	DefaultTaskPoints int
	// ReviewTaskMultiplier scales the base award of review tasks.
	ReviewTaskMultiplier int
	// OnTimeBonus is added after the multiplier when a task with a due date
	// is completed no later than that date.
	OnTimeBonus int

	PomodoroPointsStep int // points per full step of minutes
	FlashcardPoints    int // points per card

	CheckInPoints        int
	WeeklyStreakInterval int
	WeeklyStreakBonus    int

	// AchievementBonus is paid once per newly earned achievement.
	AchievementBonus int

	// Location defines where calendar days start and end for streaks and
	// the daily completion history.
	Location *time.Location
}

// NewDefaultParams returns the standard scoring constants for flavor.
func NewDefaultParams(flavor Flavor) *Params {
	params := &Params{
		Flavor: flavor,
		TaskPoints: map[domain.Priority]int{
			domain.PriorityLow:    10,
			domain.PriorityMedium: 20,
			domain.PriorityHigh:   30,
		},
		DefaultTaskPoints:    10,
		ReviewTaskMultiplier: 2,
		OnTimeBonus:          15,
		PomodoroPointsStep:   5,
		FlashcardPoints:      2,
		CheckInPoints:        10,
		WeeklyStreakInterval: 7,
		WeeklyStreakBonus:    50,
		Location:             time.UTC,
	}
	if flavor == FlavorExperience {
		params.AchievementBonus = 50
	}
	return params
}
