package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementSet(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var set AchievementSet

	assert.True(t, set.Add(Achievement{Name: "First Step", EarnedAt: first}))
	assert.True(t, set.Add(Achievement{Name: "Week Warrior", EarnedAt: first}))
	assert.False(t, set.Add(Achievement{Name: "First Step", EarnedAt: first.AddDate(0, 0, 1)}))

	require.Equal(t, 2, set.Len())
	list := set.List()
	assert.Equal(t, "First Step", list[0].Name)
	assert.True(t, list[0].EarnedAt.Equal(first), "duplicate must not replace the original entry")
	assert.Equal(t, "Week Warrior", list[1].Name)

	list[0].Name = "mutated"
	assert.True(t, set.Has("First Step"), "List must return a copy")
}

func TestAchievementSetJSON(t *testing.T) {
	t.Parallel()

	var empty AchievementSet
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var decoded AchievementSet
	require.NoError(t, json.Unmarshal(
		[]byte(`[{"name":"A"},{"name":"B"},{"name":"A","icon":"x"}]`), &decoded))
	require.Equal(t, 2, decoded.Len())
	assert.Empty(t, decoded.List()[0].Icon)
}
