package gamification

import (
	"math"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// LevelModel derives a profile's level from its accumulated score.
type LevelModel interface {
	// Level returns the level for the profile's current score (at least 1).
	Level(p *domain.Profile) int
	// NextLevelAt returns the score at which level+1 is reached.
	NextLevelAt(level int) int
}

// NewLevelModel returns the level model used by flavor.
func NewLevelModel(flavor Flavor) LevelModel {
	if flavor == FlavorExperience {
		return sqrtLevels{}
	}
	return linearLevels{}
}

// linearLevels grants a level every 100 points.
type linearLevels struct{}

func (linearLevels) Level(p *domain.Profile) int {
	return p.Points/100 + 1
}

func (linearLevels) NextLevelAt(level int) int {
	return level * 100
}

// sqrtLevels makes each level harder to reach than the last:
// level = floor(1 + sqrt(experience/100)).
type sqrtLevels struct{}

func (sqrtLevels) Level(p *domain.Profile) int {
	return int(math.Floor(1 + math.Sqrt(float64(p.Experience)/100)))
}

func (sqrtLevels) NextLevelAt(level int) int {
	return level * level * 100
}
