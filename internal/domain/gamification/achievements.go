package gamification

import (
	"time"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// Metric identifies the profile counter an achievement is measured against.
type Metric string

// Achievement metrics.
const (
	MetricTasksCompleted     Metric = "tasks_completed"
	MetricStreakDays         Metric = "streak_days"
	MetricPomodoroSessions   Metric = "pomodoro_sessions"
	MetricFlashcardsReviewed Metric = "flashcards_reviewed"
	MetricStudyMinutes       Metric = "study_minutes"
)

// AchievementDefinition is a catalog entry: the achievement is earned the
// first time Metric reaches Threshold.
type AchievementDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Metric      Metric `json:"metric"`
	Threshold   int    `json:"threshold"`
}

// defaultCatalog is evaluated in order, so achievements earned by the same
// event are appended in this order.
var defaultCatalog = []AchievementDefinition{
	{Name: "First Step", Description: "Complete your first task", Icon: "🌱", Metric: MetricTasksCompleted, Threshold: 1},
	{Name: "Getting Started", Description: "Complete 10 tasks", Icon: "🌿", Metric: MetricTasksCompleted, Threshold: 10},
	{Name: "On a Roll", Description: "Complete 25 tasks", Icon: "🌳", Metric: MetricTasksCompleted, Threshold: 25},
	{Name: "Task Master", Description: "Complete 50 tasks", Icon: "🏆", Metric: MetricTasksCompleted, Threshold: 50},
	{Name: "Productivity Champion", Description: "Complete 100 tasks", Icon: "👑", Metric: MetricTasksCompleted, Threshold: 100},
	{Name: "Three-Day Streak", Description: "Stay active 3 days in a row", Icon: "🔥", Metric: MetricStreakDays, Threshold: 3},
	{Name: "Week Warrior", Description: "Stay active 7 days in a row", Icon: "🗓️", Metric: MetricStreakDays, Threshold: 7},
	{Name: "Dedicated Learner", Description: "Stay active 14 days in a row", Icon: "📚", Metric: MetricStreakDays, Threshold: 14},
	{Name: "Monthly Master", Description: "Stay active 30 days in a row", Icon: "🌟", Metric: MetricStreakDays, Threshold: 30},
	{Name: "Focus Champion", Description: "Finish 10 pomodoro sessions", Icon: "⏱️", Metric: MetricPomodoroSessions, Threshold: 10},
	{Name: "Memory Wizard", Description: "Review 50 flashcards", Icon: "🧠", Metric: MetricFlashcardsReviewed, Threshold: 50},
	{Name: "Study Marathon", Description: "Study for 500 minutes", Icon: "🏃", Metric: MetricStudyMinutes, Threshold: 500},
}

// DefaultCatalog returns a copy of the built-in achievement catalog.
func DefaultCatalog() []AchievementDefinition {
	out := make([]AchievementDefinition, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// metricValue reads the counter m from p.
func metricValue(p *domain.Profile, m Metric) int {
	switch m {
	case MetricTasksCompleted:
		return p.Stats.TasksCompleted
	case MetricStreakDays:
		return p.StreakDays
	case MetricPomodoroSessions:
		return p.Stats.PomodoroSessionsCompleted
	case MetricFlashcardsReviewed:
		return p.Stats.FlashcardsReviewed
	case MetricStudyMinutes:
		return p.Stats.TotalStudyMinutes
	}
	return 0
}

// awardAchievements adds every catalog achievement p qualifies for but has
// not yet earned, in catalog order, and returns the newly added ones.
func awardAchievements(p *domain.Profile, catalog []AchievementDefinition, now time.Time) []domain.Achievement {
	var earned []domain.Achievement
	for _, def := range catalog {
		if metricValue(p, def.Metric) < def.Threshold {
			continue
		}
		a := domain.Achievement{
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			EarnedAt:    now,
		}
		if p.Achievements.Add(a) {
			earned = append(earned, a)
		}
	}
	return earned
}

// Progress reports how far a profile is toward one achievement.
type Progress struct {
	AchievementDefinition
	Current  int  `json:"current"`
	Percent  int  `json:"percent"`
	Unlocked bool `json:"unlocked"`
}

// AchievementProgress returns progress toward every entry in catalog.
// Percent is capped at 100 and is 100 for earned achievements.
func AchievementProgress(p *domain.Profile, catalog []AchievementDefinition) []Progress {
	out := make([]Progress, 0, len(catalog))
	for _, def := range catalog {
		current := metricValue(p, def.Metric)
		unlocked := p.Achievements.Has(def.Name)
		percent := 100
		if !unlocked && def.Threshold > 0 {
			percent = min(100, current*100/def.Threshold)
		}
		out = append(out, Progress{
			AchievementDefinition: def,
			Current:               current,
			Percent:               percent,
			Unlocked:              unlocked,
		})
	}
	return out
}
