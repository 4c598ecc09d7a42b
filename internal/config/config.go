// Package config defines process configuration and its loading hooks.
//
// Scoring parameters here are only the seed for a fresh ledger; once a
// ledger exists, the persisted config inside it is authoritative.
package config

import "github.com/maratona/rating/internal/domain/model"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LedgerPath is the JSON ledger file location.
	LedgerPath string `koanf:"ledger_path"`

	// PrettySave indents the saved ledger for hand inspection.
	PrettySave bool `koanf:"pretty_save"`

	// LenientRows applies good scoreboard rows even when some are malformed.
	LenientRows bool `koanf:"lenient_rows"`

	// Seed scoring parameters for a fresh ledger.
	BonusModel                string  `koanf:"bonus_model"`
	ContestBaseWeight         float64 `koanf:"contest_base_weight"`
	ContestGrowthPeriod       int     `koanf:"contest_growth_period"`
	ContestBonusTopN          int     `koanf:"contest_bonus_top_n"`
	ContestBonusMax           float64 `koanf:"contest_bonus_max"`
	HomeworkBaseWeight        float64 `koanf:"homework_base_weight"`
	HomeworkGrowthPeriod      int     `koanf:"homework_growth_period"`
	HomeworkBonusTopN         int     `koanf:"homework_bonus_top_n"`
	HomeworkBonusMax          float64 `koanf:"homework_bonus_max"`
	UpsolvingPointsPerProblem float64 `koanf:"upsolving_points_per_problem"`
	MinContestsRequired       int     `koanf:"min_contests_required"`
	MinHomeworksRequired      int     `koanf:"min_homeworks_required"`
}

// New returns the defaults layered under file and env values.
func New() *Config {
	seed := model.DefaultScoringConfig()
	return &Config{
		LogLevel:                  "info",
		LedgerPath:                "rating_database.json",
		PrettySave:                true,
		BonusModel:                string(seed.BonusModel),
		ContestBaseWeight:         seed.ContestBaseWeight,
		ContestGrowthPeriod:       seed.ContestGrowthPeriod,
		ContestBonusTopN:          seed.ContestBonusTopN,
		ContestBonusMax:           seed.ContestBonusMax,
		HomeworkBaseWeight:        seed.HomeworkBaseWeight,
		HomeworkGrowthPeriod:      seed.HomeworkGrowthPeriod,
		HomeworkBonusTopN:         seed.HomeworkBonusTopN,
		HomeworkBonusMax:          seed.HomeworkBonusMax,
		UpsolvingPointsPerProblem: seed.UpsolvingPointsPerProblem,
		MinContestsRequired:       seed.MinContestsRequired,
		MinHomeworksRequired:      seed.MinHomeworksRequired,
	}
}

// ScoringConfig converts the seed fields into the ledger's config shape.
func (c *Config) ScoringConfig() model.ScoringConfig {
	return model.ScoringConfig{
		BonusModel:                model.BonusModel(c.BonusModel),
		ContestBaseWeight:         c.ContestBaseWeight,
		ContestGrowthPeriod:       c.ContestGrowthPeriod,
		ContestBonusTopN:          c.ContestBonusTopN,
		ContestBonusMax:           c.ContestBonusMax,
		HomeworkBaseWeight:        c.HomeworkBaseWeight,
		HomeworkGrowthPeriod:      c.HomeworkGrowthPeriod,
		HomeworkBonusTopN:         c.HomeworkBonusTopN,
		HomeworkBonusMax:          c.HomeworkBonusMax,
		UpsolvingPointsPerProblem: c.UpsolvingPointsPerProblem,
		MinContestsRequired:       c.MinContestsRequired,
		MinHomeworksRequired:      c.MinHomeworksRequired,
	}
}
