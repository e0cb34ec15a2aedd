package config

import (
	"fmt"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Validator checks a loaded configuration for internal consistency.
type Validator interface {
	Validate(cfg *Config) error
}

// validator is the default Validator implementation.
type validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() Validator {
	return validator{}
}

// Validate checks the configuration and returns an error listing every
// violation found, not just the first.
func (validator) Validate(cfg *Config) error {
	var problems []string

	if cfg.Database.Path == "" {
		problems = append(problems, "database.path must not be empty")
	}
	if cfg.Database.MaxOpenConns < 1 {
		problems = append(problems, "database.max_open_conns must be at least 1")
	}

	sel := cfg.Selection
	if sel.MinTargetCount < 1 {
		problems = append(problems, "selection.min_target_count must be at least 1")
	}
	if sel.MaxTargetCount < sel.MinTargetCount {
		problems = append(problems, "selection.max_target_count must be >= min_target_count")
	}
	if sel.SoftCapRatio <= 0 || sel.SoftCapRatio > 1 {
		problems = append(problems, "selection.soft_cap_ratio must be in (0, 1]")
	}
	for i, tier := range sel.FoodMinimums {
		if tier.MinTarget < 1 || tier.FoodMin < 0 {
			problems = append(problems, fmt.Sprintf("selection.food_minimums[%d] has invalid bounds", i))
		}
		if tier.FoodMin > tier.MinTarget {
			problems = append(problems, fmt.Sprintf("selection.food_minimums[%d] food_min exceeds its target floor", i))
		}
	}
	for name, weight := range sel.CategoryWeights {
		if !types.Category(name).IsValid() {
			problems = append(problems, fmt.Sprintf("selection.category_weights has unknown category %q", name))
		}
		if weight <= 0 {
			problems = append(problems, fmt.Sprintf("selection.category_weights[%s] must be positive", name))
		}
	}

	if cfg.Ledger.MaxRecent < 1 {
		problems = append(problems, "ledger.max_recent must be at least 1")
	}
	if cfg.Ledger.AnonymousTTL <= 0 {
		problems = append(problems, "ledger.anonymous_ttl must be positive")
	}
	if cfg.Ledger.SweepInterval <= 0 {
		problems = append(problems, "ledger.sweep_interval must be positive")
	}

	if cfg.Quota.DailyCeiling < 1 {
		problems = append(problems, "quota.daily_ceiling must be at least 1")
	}
	if cfg.Quota.AnonymousBurst < 1 {
		problems = append(problems, "quota.anonymous_burst must be at least 1")
	}
	if cfg.Quota.SweepInterval > 0 && cfg.Quota.IdleTTL <= 0 {
		problems = append(problems, "quota.idle_ttl must be positive when quota.sweep_interval is set")
	}

	if cfg.Reward.DefaultDropRate < 0 || cfg.Reward.DefaultDropRate > 1 {
		problems = append(problems, "reward.default_drop_rate must be in [0, 1]")
	}

	if cfg.Advisor.Enabled {
		if cfg.Advisor.Provider == "" {
			problems = append(problems, "advisor.provider must be set when advisor is enabled")
		}
		if cfg.Advisor.Timeout <= 0 {
			problems = append(problems, "advisor.timeout must be positive")
		}
		if cfg.Advisor.MaxAttempts < 1 {
			problems = append(problems, "advisor.max_attempts must be at least 1")
		}
	}

	if len(problems) > 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, strings.Join(problems, "; "))
	}
	return nil
}
