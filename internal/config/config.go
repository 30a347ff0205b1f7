package config

import (
	"strings"

	"github.com/tbonnin/stable-api/internal/domain/rules"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Rules    RulesConfig    `mapstructure:"rules"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// CacheConfig contains the Redis listing-cache settings. The cache is
// optional; when Enabled is false the server computes every listing
// from the database.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// RulesConfig carries the admission rule limits and the list of rules
// the club has chosen to switch off. Zero limits fall back to the
// standard defaults when converted with ToRules.
type RulesConfig struct {
	LessonCapacity     int `mapstructure:"lesson_capacity" validate:"gte=0"`
	HorseDailyCap      int `mapstructure:"horse_daily_cap" validate:"gte=0"`
	RiderDailyHorseCap int `mapstructure:"rider_daily_horse_cap" validate:"gte=0"`
	RiderWeeklyCap     int `mapstructure:"rider_weekly_cap" validate:"gte=0"`
	YoungHorseAge      int `mapstructure:"young_horse_age" validate:"gte=0"`
	WorkSessionLimit   int `mapstructure:"work_session_limit" validate:"gte=0"`

	// Disabled is a comma-separated list of rule names to exclude
	// from evaluation, e.g. "young_horse,rider_weekly_cap".
	Disabled string `mapstructure:"disabled"`
}

// DisabledRules parses the Disabled field into individual rule names,
// trimming whitespace and dropping empty entries.
func (r RulesConfig) DisabledRules() []string {
	if r.Disabled == "" {
		return nil
	}
	parts := strings.Split(r.Disabled, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ToRules converts the section into the rule engine's configuration.
// Limits left at zero keep their default values.
func (r RulesConfig) ToRules() *rules.Config {
	cfg := rules.NewDefaultConfig()
	if r.LessonCapacity > 0 {
		cfg.Limits.LessonCapacity = r.LessonCapacity
	}
	if r.HorseDailyCap > 0 {
		cfg.Limits.HorseDailyCap = r.HorseDailyCap
	}
	if r.RiderDailyHorseCap > 0 {
		cfg.Limits.RiderDailyHorseCap = r.RiderDailyHorseCap
	}
	if r.RiderWeeklyCap > 0 {
		cfg.Limits.RiderWeeklyCap = r.RiderWeeklyCap
	}
	if r.YoungHorseAge > 0 {
		cfg.Limits.YoungHorseAge = r.YoungHorseAge
	}
	if r.WorkSessionLimit > 0 {
		cfg.Limits.WorkSessionLimit = r.WorkSessionLimit
	}
	for _, name := range r.DisabledRules() {
		cfg.Disable(rules.Name(name))
	}
	return cfg
}
