package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Gamification GamificationConfig `mapstructure:"gamification" validate:"required"`
	SRS          SRSConfig          `mapstructure:"srs"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Per-user (or per-IP for anonymous routes) request rate.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"      validate:"gt=0"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// ConnMaxLifetime returns the connection lifetime as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// GamificationConfig selects the scoring flavor and the time zone in which
// streak days are counted.
type GamificationConfig struct {
	Flavor   string `mapstructure:"flavor"   validate:"required,oneof=points experience"`
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// Location loads the configured time zone. Load has already validated it.
func (c GamificationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SRSConfig contains review scheduling settings. Zero values keep the
// scheduler's built-in constants.
type SRSConfig struct {
	// StrictDifficulty rejects out-of-range difficulty ratings instead of
	// ignoring them.
	StrictDifficulty bool `mapstructure:"strict_difficulty"`

	FirstReviewIntervalDays  int     `mapstructure:"first_review_interval_days"  validate:"gte=0"`
	SecondReviewIntervalDays int     `mapstructure:"second_review_interval_days" validate:"gte=0"`
	BaseEaseFactor           float64 `mapstructure:"base_ease_factor"            validate:"gte=0"`
	EaseFactorStep           float64 `mapstructure:"ease_factor_step"            validate:"gte=0"`
	HardIntervalMultiplier   float64 `mapstructure:"hard_interval_multiplier"    validate:"gte=0,lte=1"`
	EasyIntervalMultiplier   float64 `mapstructure:"easy_interval_multiplier"    validate:"gte=0"`
}
