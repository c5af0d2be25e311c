package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile validation errors.
var (
	ErrEmptyProfileUserID = errors.New("profile user ID cannot be empty")
	ErrNegativePoints     = errors.New("points cannot be negative")
	ErrInvalidLevel       = errors.New("level must be at least 1")
	ErrNegativeStreak     = errors.New("streak cannot be negative")
)

// ActivityStats are the cumulative counters achievements are evaluated against.
type ActivityStats struct {
	TasksCompleted            int `json:"tasks_completed"`
	TasksCompletedOnTime      int `json:"tasks_completed_on_time"`
	TasksCompletedLate        int `json:"tasks_completed_late"`
	PomodoroSessionsCompleted int `json:"pomodoro_sessions_completed"`
	TotalStudyMinutes         int `json:"total_study_minutes"`
	FlashcardsReviewed        int `json:"flashcards_reviewed"`
}

// Profile is a user's cumulative gamification state. There is one per user,
// created lazily the first time the user does something that scores.
//
// Level is always derived from Points (or Experience, depending on the
// configured level model) and is recomputed after every change.
type Profile struct {
	UserID        uuid.UUID      `json:"user_id"`
	Points        int            `json:"points"`
	Experience    int            `json:"experience"`
	Level         int            `json:"level"`
	StreakDays    int            `json:"streak_days"`
	LongestStreak int            `json:"longest_streak"`
	LastActivity  *time.Time     `json:"last_activity,omitempty"`
	Achievements  AchievementSet `json:"achievements"`
	DailyHistory  DailyHistory   `json:"daily_history"`
	Stats         ActivityStats  `json:"stats"`

	// Version increments on every persisted update and guards against
	// concurrent writers overwriting each other.
	Version   int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile returns the all-zero starting profile for a user.
func NewProfile(userID uuid.UUID, now time.Time) (*Profile, error) {
	p := &Profile{
		UserID:    userID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile's invariants.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProfileUserID
	}
	if p.Points < 0 || p.Experience < 0 {
		return ErrNegativePoints
	}
	if p.Level < 1 {
		return ErrInvalidLevel
	}
	if p.StreakDays < 0 || p.LongestStreak < 0 {
		return ErrNegativeStreak
	}
	return nil
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.LastActivity = copyTime(p.LastActivity)
	c.Achievements = NewAchievementSet(p.Achievements.List()...)
	c.DailyHistory = DailyHistory{entries: p.DailyHistory.Entries()}
	return &c
}
