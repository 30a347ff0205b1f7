package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/tbonnin/stable-api/internal/domain/rules"
)

// Load reads configuration from environment variables and optionally a
// config file. Environment variables take precedence over file values.
// Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl_seconds", 30)

	// Look for an optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables with the STABLE_ prefix,
	// e.g. STABLE_DATABASE_URL maps to database.url.
	v.SetEnvPrefix("STABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind the variables viper cannot discover through
	// Unmarshal alone.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"cache.enabled",
		"cache.addr",
		"cache.password",
		"cache.db",
		"cache.ttl_seconds",
		"rules.lesson_capacity",
		"rules.horse_daily_cap",
		"rules.rider_daily_horse_cap",
		"rules.rider_weekly_cap",
		"rules.young_horse_age",
		"rules.work_session_limit",
		"rules.disabled",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := validateRuleNames(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateRuleNames rejects disabled-rule entries that do not name a
// known admission rule, so a typo fails startup instead of silently
// leaving the rule active.
func validateRuleNames(r RulesConfig) error {
	known := make(map[rules.Name]bool, len(rules.AllRules()))
	for _, name := range rules.AllRules() {
		known[name] = true
	}
	for _, name := range r.DisabledRules() {
		if !known[rules.Name(name)] {
			return fmt.Errorf("config validation failed: unknown rule %q in rules.disabled", name)
		}
	}
	return nil
}
