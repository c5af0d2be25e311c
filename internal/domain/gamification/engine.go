package gamification

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
)

// Engine errors.
var (
	ErrNilProfile   = errors.New("profile cannot be nil")
	ErrUnknownEvent = errors.New("unknown gamification event")
)

// Outcome is the result of recording one event.
type Outcome struct {
	Profile         *domain.Profile
	PointsAwarded   int
	LeveledUp       bool
	NewLevel        int
	NewAchievements []domain.Achievement
	// AlreadyCheckedIn is set when a daily check-in repeats on the same
	// calendar day; nothing else changes in that case.
	AlreadyCheckedIn bool
	Streak           StreakStatus
}

// Engine maintains per-user points, levels, streaks and achievements.
//
// Like the srs scheduler, the engine is pure: it never modifies the profile
// it is given and returns a fully updated copy instead. Callers are
// responsible for loading the latest profile and persisting the result
// without interleaving other writes for the same user.
type Engine interface {
	// NewProfile returns the starting profile for a user who has not
	// scored yet.
	NewProfile(userID uuid.UUID, now time.Time) (*domain.Profile, error)

	// RecordEvent applies event to profile at now.
	RecordEvent(profile *domain.Profile, event Event, now time.Time) (*Outcome, error)

	// CheckAchievements awards any catalog achievement the profile qualifies
	// for but has not earned. Repeated calls without new activity change
	// nothing. RecordEvent already runs this after every change.
	CheckAchievements(profile *domain.Profile, now time.Time) (*domain.Profile, []domain.Achievement, error)

	// NextLevelAt returns the score needed to reach level+1.
	NextLevelAt(level int) int

	// Catalog returns the achievement definitions the engine awards.
	Catalog() []AchievementDefinition
}

type defaultEngine struct {
	params  *Params
	levels  LevelModel
	catalog []AchievementDefinition
}

// NewDefaultEngine creates an Engine for the points flavor in UTC.
func NewDefaultEngine() Engine {
	return NewEngineWithParams(NewDefaultParams(FlavorPoints))
}

// NewEngineWithParams creates an Engine with custom parameters.
// A nil params falls back to the points flavor defaults.
func NewEngineWithParams(params *Params) Engine {
	if params == nil {
		params = NewDefaultParams(FlavorPoints)
	}
	if params.Location == nil {
		params.Location = time.UTC
	}
	return &defaultEngine{
		params:  params,
		levels:  NewLevelModel(params.Flavor),
		catalog: DefaultCatalog(),
	}
}

func (e *defaultEngine) NewProfile(userID uuid.UUID, now time.Time) (*domain.Profile, error) {
	return domain.NewProfile(userID, now)
}

func (e *defaultEngine) NextLevelAt(level int) int {
	return e.levels.NextLevelAt(level)
}

func (e *defaultEngine) Catalog() []AchievementDefinition {
	out := make([]AchievementDefinition, len(e.catalog))
	copy(out, e.catalog)
	return out
}

func (e *defaultEngine) RecordEvent(profile *domain.Profile, event Event, now time.Time) (*Outcome, error) {
	if profile == nil {
		return nil, ErrNilProfile
	}

	p := profile.Clone()
	oldLevel := p.Level
	outcome := &Outcome{Profile: p, Streak: StreakUnchanged}

	var points int
	switch event.Type {
	case EventTaskCompleted, EventReviewCompleted:
		if event.Type == EventReviewCompleted {
			event.IsReviewTask = true
		}
		points = e.taskPoints(p, event, now)
		p.Stats.TasksCompleted++
		p.DailyHistory.Record(startOfDay(now, e.params.Location))
		outcome.Streak = e.touchStreak(p, now)

	case EventPomodoroCompleted:
		if event.SessionType != "" && event.SessionType != SessionWork {
			break
		}
		minutes := max(0, event.DurationMinutes)
		if step := e.params.PomodoroPointsStep; step > 0 {
			points = minutes / step * step
		}
		p.Stats.PomodoroSessionsCompleted++
		p.Stats.TotalStudyMinutes += minutes

	case EventFlashcardReviewed:
		count := max(0, event.Count)
		points = count * e.params.FlashcardPoints
		p.Stats.FlashcardsReviewed += count

	case EventDailyCheckIn:
		outcome.Streak = e.touchStreak(p, now)
		if outcome.Streak == StreakUnchanged {
			// Repeat check-in: report success without touching the profile.
			outcome.Profile = profile.Clone()
			outcome.AlreadyCheckedIn = true
			outcome.NewLevel = oldLevel
			return outcome, nil
		}
		points = e.params.CheckInPoints
		if n := e.params.WeeklyStreakInterval; n > 0 && p.StreakDays%n == 0 {
			points += e.params.WeeklyStreakBonus
		}

	default:
		return nil, ErrUnknownEvent
	}

	e.addPoints(p, points)
	outcome.PointsAwarded = points

	earned, bonus := e.checkAchievements(p, now)
	outcome.NewAchievements = earned
	outcome.PointsAwarded += bonus

	p.UpdatedAt = now
	outcome.NewLevel = p.Level
	outcome.LeveledUp = p.Level > oldLevel
	return outcome, nil
}

func (e *defaultEngine) CheckAchievements(
	profile *domain.Profile,
	now time.Time,
) (*domain.Profile, []domain.Achievement, error) {
	if profile == nil {
		return nil, nil, ErrNilProfile
	}
	p := profile.Clone()
	earned, _ := e.checkAchievements(p, now)
	if len(earned) > 0 {
		p.UpdatedAt = now
	}
	return p, earned, nil
}

// checkAchievements awards new achievements on p in place and pays the
// flavor's bonus for them. It returns the achievements and the bonus paid.
func (e *defaultEngine) checkAchievements(p *domain.Profile, now time.Time) ([]domain.Achievement, int) {
	earned := awardAchievements(p, e.catalog, now)
	bonus := len(earned) * e.params.AchievementBonus
	e.addPoints(p, bonus)
	return earned, bonus
}

// taskPoints scores a task completion and records whether it was on time.
// The on-time bonus is added after the review multiplier.
func (e *defaultEngine) taskPoints(p *domain.Profile, event Event, now time.Time) int {
	points, ok := e.params.TaskPoints[event.Priority]
	if !ok {
		points = e.params.DefaultTaskPoints
	}
	if event.IsReviewTask {
		points *= e.params.ReviewTaskMultiplier
	}

	if event.DueAt != nil {
		if now.After(*event.DueAt) {
			p.Stats.TasksCompletedLate++
		} else {
			p.Stats.TasksCompletedOnTime++
			points += e.params.OnTimeBonus
		}
	}
	return points
}

// touchStreak advances p's streak for activity at now and records now as the
// last activity unless the user was already active today.
func (e *defaultEngine) touchStreak(p *domain.Profile, now time.Time) StreakStatus {
	streak, status := advanceStreak(p.StreakDays, p.LastActivity, now, e.params.Location)
	if status == StreakUnchanged {
		return status
	}
	p.StreakDays = streak
	p.LongestStreak = max(p.LongestStreak, streak)
	p.LastActivity = &now
	return status
}

// addPoints credits points and experience and recomputes the level.
func (e *defaultEngine) addPoints(p *domain.Profile, points int) {
	if points > 0 {
		p.Points += points
		p.Experience += points
	}
	p.Level = e.levels.Level(p)
}
