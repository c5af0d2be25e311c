package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// MaxDailyHistory is the number of most recent days kept in a DailyHistory.
const MaxDailyHistory = 30

// DailyCompletion counts the tasks completed on one calendar day.
type DailyCompletion struct {
	Date           time.Time `json:"date"`
	TasksCompleted int       `json:"tasks_completed"`
}

// DailyHistory holds at most one entry per calendar day, most recent first,
// trimmed to the MaxDailyHistory most recent days.
// Dates are expected to be truncated to midnight by the caller.
type DailyHistory struct {
	entries []DailyCompletion
}

// Record increments the counter for day, creating the entry if needed.
func (h *DailyHistory) Record(day time.Time) {
	found := false
	for i := range h.entries {
		if h.entries[i].Date.Equal(day) {
			h.entries[i].TasksCompleted++
			found = true
			break
		}
	}
	if !found {
		h.entries = append(h.entries, DailyCompletion{Date: day, TasksCompleted: 1})
	}
	h.normalize()
}

// Entries returns a copy of the history, most recent first.
func (h *DailyHistory) Entries() []DailyCompletion {
	out := make([]DailyCompletion, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of days recorded.
func (h *DailyHistory) Len() int {
	return len(h.entries)
}

// On returns the number of tasks completed on day.
func (h *DailyHistory) On(day time.Time) int {
	for _, e := range h.entries {
		if e.Date.Equal(day) {
			return e.TasksCompleted
		}
	}
	return 0
}

// Total sums the tasks completed across the retained days.
func (h *DailyHistory) Total() int {
	total := 0
	for _, e := range h.entries {
		total += e.TasksCompleted
	}
	return total
}

func (h *DailyHistory) normalize() {
	slices.SortStableFunc(h.entries, func(a, b DailyCompletion) int {
		return b.Date.Compare(a.Date)
	})
	if len(h.entries) > MaxDailyHistory {
		h.entries = h.entries[:MaxDailyHistory]
	}
}

// MarshalJSON encodes the history as a JSON array.
func (h DailyHistory) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

// UnmarshalJSON decodes a JSON array, merging duplicate days and
// re-applying the ordering and size bound.
func (h *DailyHistory) UnmarshalJSON(data []byte) error {
	var raw []DailyCompletion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var merged DailyHistory
	for _, e := range raw {
		merged.add(e)
	}
	merged.normalize()
	*h = merged
	return nil
}

func (h *DailyHistory) add(e DailyCompletion) {
	for i := range h.entries {
		if h.entries[i].Date.Equal(e.Date) {
			h.entries[i].TasksCompleted += e.TasksCompleted
			return
		}
	}
	h.entries = append(h.entries, e)
}
