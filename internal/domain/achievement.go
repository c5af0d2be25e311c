package domain

import (
	"encoding/json"
	"time"
)

// Achievement is a one-time milestone badge, unique per profile by Name.
type Achievement struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

// AchievementSet is an insertion-ordered set of achievements keyed by name.
// Adding a name that is already present is a no-op, so the set can never
// hold more entries than there are distinct achievement names.
// The zero value is an empty set ready to use.
type AchievementSet struct {
	items []Achievement
}

// NewAchievementSet builds a set from items, dropping later duplicates.
func NewAchievementSet(items ...Achievement) AchievementSet {
	var s AchievementSet
	for _, a := range items {
		s.Add(a)
	}
	return s
}

// Has reports whether an achievement with the given name was earned.
func (s *AchievementSet) Has(name string) bool {
	for _, a := range s.items {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Add appends a if no achievement with the same name exists.
// It returns true when a was added.
func (s *AchievementSet) Add(a Achievement) bool {
	if s.Has(a.Name) {
		return false
	}
	s.items = append(s.items, a)
	return true
}

// Len returns the number of earned achievements.
func (s *AchievementSet) Len() int {
	return len(s.items)
}

// List returns a copy of the achievements in the order they were earned.
func (s *AchievementSet) List() []Achievement {
	out := make([]Achievement, len(s.items))
	copy(out, s.items)
	return out
}

// MarshalJSON encodes the set as a JSON array.
func (s AchievementSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes a JSON array, discarding duplicate names.
func (s *AchievementSet) UnmarshalJSON(data []byte) error {
	var items []Achievement
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewAchievementSet(items...)
	return nil
}
