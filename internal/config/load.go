package config

import (
	"errors"
	"fmt"
	"strings"
	_ "time/tzdata" // time zones must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SCHOLAR_DATABASE_URL for database.url.
const EnvPrefix = "SCHOLAR"

var defaults = map[string]any{
	"server.port":                        8080,
	"server.log_level":                   "info",
	"server.rate_limit_per_second":       5.0,
	"server.rate_limit_burst":            10,
	"database.url":                       "",
	"database.max_open_conns":            25,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 60,
	"auth.jwt_secret":                    "",
	"auth.token_lifetime_minutes":        60,
	"auth.bcrypt_cost":                   10,
	"gamification.flavor":                "points",
	"gamification.timezone":              "UTC",
	"srs.strict_difficulty":              false,
	"srs.first_review_interval_days":     0,
	"srs.second_review_interval_days":    0,
	"srs.base_ease_factor":               0.0,
	"srs.ease_factor_step":               0.0,
	"srs.hard_interval_multiplier":       0.0,
	"srs.easy_interval_multiplier":       0.0,
}

// Load reads configuration from defaults, an optional YAML file and
// SCHOLAR_-prefixed environment variables, in increasing order of
// precedence, and validates the result.
//
// configFile may be empty, in which case config.yaml is looked up in the
// working directory and silently skipped when absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
