// Package rules implements the admission decision for candidate
// enrollments: a pure, side-effect-free evaluation of every configured
// scheduling rule against a point-in-time snapshot of existing
// enrollments.
//
// Each rule is an independent predicate identified by a Name. The
// authoritative rule set has shifted over the club's history, so the
// engine never hard-codes which rules apply: callers pin the active set
// and the numeric limits through a Config passed at construction. The
// same predicates back both enrollment validation and the candidate
// listings, so the two can never drift apart.
package rules

// Limits holds the numeric bounds referenced by the rule predicates.
type Limits struct {
	// LessonCapacity is the maximum number of enrollments per lesson.
	LessonCapacity int

	// HorseDailyCap is the maximum number of times a horse may be
	// ridden on a single day.
	HorseDailyCap int

	// RiderDailyHorseCap is the maximum number of distinct horses a
	// rider may ride on a single day.
	RiderDailyHorseCap int

	// RiderWeeklyCap is the maximum number of lessons a rider may be
	// enrolled in across the scheduling week.
	RiderWeeklyCap int

	// YoungHorseAge is the age (in years) below which a horse falls
	// under the young-horse restrictions.
	YoungHorseAge int

	// WorkSessionLimit is the weekly enrollment count beyond which a
	// horse is no longer available. It feeds the availability
	// recomputation rather than an admission rule.
	WorkSessionLimit int
}

// Config defines which rules are active and with which limits.
type Config struct {
	Limits Limits

	// Disabled lists rules excluded from evaluation. A rule absent from
	// the map is active; disabling is the explicit, recorded exception.
	Disabled map[Name]bool
}

// NewDefaultConfig returns the club's standard rule set: every rule
// active, with the historically agreed limits.
func NewDefaultConfig() *Config {
	return &Config{
		Limits: Limits{
			LessonCapacity:     5,
			HorseDailyCap:      2,
			RiderDailyHorseCap: 2,
			RiderWeeklyCap:     4,
			YoungHorseAge:      6,
			WorkSessionLimit:   8,
		},
	}
}

// Enabled reports whether the named rule participates in evaluation.
func (c *Config) Enabled(name Name) bool {
	return !c.Disabled[name]
}

// Disable marks a rule as excluded from evaluation and returns the
// config for chaining during setup.
func (c *Config) Disable(name Name) *Config {
	if c.Disabled == nil {
		c.Disabled = make(map[Name]bool)
	}
	c.Disabled[name] = true
	return c
}
