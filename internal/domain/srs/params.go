package srs

// Params defines the tunable constants of the review scheduling rule.
type Params struct {
	// Fixed intervals, in days, after the first and second completed review.
	FirstReviewInterval  int
	SecondReviewInterval int

	// Ease factor = BaseEaseFactor - EaseFactorStep*(rating - NeutralRating).
	BaseEaseFactor float64
	EaseFactorStep float64
	NeutralRating  int

	// HardIntervalMultiplier shrinks intervals for ratings above neutral;
	// EasyIntervalMultiplier stretches them for ratings below neutral.
	HardIntervalMultiplier float64
	EasyIntervalMultiplier float64

	// StrictDifficulty rejects out-of-range ratings with
	// ErrInvalidDifficultyRating instead of ignoring them.
	StrictDifficulty bool
}

// ParamsConfig overrides selected defaults when building Params.
// Zero values keep the default.
type ParamsConfig struct {
	FirstReviewInterval    int
	SecondReviewInterval   int
	BaseEaseFactor         float64
	EaseFactorStep         float64
	HardIntervalMultiplier float64
	EasyIntervalMultiplier float64
	StrictDifficulty       bool
}

// NewDefaultParams returns the standard scheduling constants.
func NewDefaultParams() *Params {
	return &Params{
		FirstReviewInterval:    1,
		SecondReviewInterval:   3,
		BaseEaseFactor:         2.5,
		EaseFactorStep:         0.3,
		NeutralRating:          3,
		HardIntervalMultiplier: 0.7,
		EasyIntervalMultiplier: 1.3,
	}
}

// NewParams builds Params from the defaults plus any overrides in config.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.FirstReviewInterval > 0 {
		params.FirstReviewInterval = config.FirstReviewInterval
	}
	if config.SecondReviewInterval > 0 {
		params.SecondReviewInterval = config.SecondReviewInterval
	}
	if config.BaseEaseFactor > 0 {
		params.BaseEaseFactor = config.BaseEaseFactor
	}
	if config.EaseFactorStep > 0 {
		params.EaseFactorStep = config.EaseFactorStep
	}
	if config.HardIntervalMultiplier > 0 {
		params.HardIntervalMultiplier = config.HardIntervalMultiplier
	}
	if config.EasyIntervalMultiplier > 0 {
		params.EasyIntervalMultiplier = config.EasyIntervalMultiplier
	}
	params.StrictDifficulty = config.StrictDifficulty

	return params
}
