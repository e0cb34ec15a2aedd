package config

import (
	"time"
)

// Config is the root configuration for the draw engine.
// All weighting and rule tables the engine consults are explicit here so
// they can vary per market and be tested in isolation.
type Config struct {
	Database  DBConfig        `mapstructure:"database" yaml:"database"`
	Selection SelectionConfig `mapstructure:"selection" yaml:"selection"`
	Ledger    LedgerConfig    `mapstructure:"ledger" yaml:"ledger"`
	Quota     QuotaConfig     `mapstructure:"quota" yaml:"quota"`
	Reward    RewardConfig    `mapstructure:"reward" yaml:"reward"`
	Advisor   AdvisorConfig   `mapstructure:"advisor" yaml:"advisor"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// DBConfig contains SQLite database configuration.
type DBConfig struct {
	Path         string        `mapstructure:"path" yaml:"path"`
	MaxOpenConns int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`
}

// FoodTier maps a target-count floor to a minimum food-category count.
// Tiers are matched by the highest MinTarget not exceeding the requested count.
type FoodTier struct {
	MinTarget int `mapstructure:"min_target" yaml:"min_target"`
	FoodMin   int `mapstructure:"food_min" yaml:"food_min"`
}

// SelectionConfig drives the category-constrained selector.
type SelectionConfig struct {
	MinTargetCount int `mapstructure:"min_target_count" yaml:"min_target_count"`
	MaxTargetCount int `mapstructure:"max_target_count" yaml:"max_target_count"`

	// FoodMinimums is the tier table for the food-category minimum.
	FoodMinimums []FoodTier `mapstructure:"food_minimums" yaml:"food_minimums"`

	// LodgingThreshold is the target count at which a single lodging slot
	// is reserved.
	LodgingThreshold int `mapstructure:"lodging_threshold" yaml:"lodging_threshold"`

	// SoftCapRatio bounds any single category's share of the result.
	SoftCapRatio float64 `mapstructure:"soft_cap_ratio" yaml:"soft_cap_ratio"`

	// CategoryWeights biases the roulette draw for filler slots.
	// Missing categories default to weight 1.
	CategoryWeights map[string]float64 `mapstructure:"category_weights" yaml:"category_weights"`

	// CatalogFetchLimit caps how many places are pulled from the catalog
	// per scope before selection.
	CatalogFetchLimit int `mapstructure:"catalog_fetch_limit" yaml:"catalog_fetch_limit"`
}

// FoodMinimumFor returns the configured food minimum for a target count.
func (s SelectionConfig) FoodMinimumFor(targetCount int) int {
	best := 0
	bestFloor := -1
	for _, tier := range s.FoodMinimums {
		if targetCount >= tier.MinTarget && tier.MinTarget > bestFloor {
			best = tier.FoodMin
			bestFloor = tier.MinTarget
		}
	}
	return best
}

// LodgingSlotFor reports whether a lodging slot is reserved for a target count.
func (s SelectionConfig) LodgingSlotFor(targetCount int) bool {
	return s.LodgingThreshold > 0 && targetCount >= s.LodgingThreshold
}

// WeightFor returns the roulette weight for a category, defaulting to 1.
func (s SelectionConfig) WeightFor(category string) float64 {
	if w, ok := s.CategoryWeights[category]; ok && w > 0 {
		return w
	}
	return 1
}

// LedgerConfig drives the deduplication ledger.
type LedgerConfig struct {
	// MaxRecent bounds the per-identity rolling set of recently served ids.
	MaxRecent int `mapstructure:"max_recent" yaml:"max_recent"`

	// AnonymousTTL is the sliding expiry of volatile guest entries.
	AnonymousTTL time.Duration `mapstructure:"anonymous_ttl" yaml:"anonymous_ttl"`

	// SweepInterval is the period of the background expiry sweep.
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// QuotaConfig drives the per-identity daily draw ceiling.
type QuotaConfig struct {
	DailyCeiling int `mapstructure:"daily_ceiling" yaml:"daily_ceiling"`

	// ExemptIdentities bypass the ceiling entirely.
	ExemptIdentities []string `mapstructure:"exempt_identities" yaml:"exempt_identities"`

	// Anonymous identities skip the durable counter and pass through a
	// token-bucket limiter instead.
	AnonymousRate  float64 `mapstructure:"anonymous_rate" yaml:"anonymous_rate"`
	AnonymousBurst int     `mapstructure:"anonymous_burst" yaml:"anonymous_burst"`

	// IdleTTL and SweepInterval bound the governor's in-memory per-identity
	// state: entries idle past the TTL are evicted by a periodic sweep. A
	// sweep interval of zero disables the sweep.
	IdleTTL       time.Duration `mapstructure:"idle_ttl" yaml:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// IsExempt reports whether an identity key is on the allow-list.
func (q QuotaConfig) IsExempt(identityKey string) bool {
	for _, key := range q.ExemptIdentities {
		if key == identityKey {
			return true
		}
	}
	return false
}

// RewardConfig drives sponsor-reward issuance.
type RewardConfig struct {
	// DefaultDropRate applies when a sponsor link has no rate of its own.
	DefaultDropRate float64 `mapstructure:"default_drop_rate" yaml:"default_drop_rate"`
}

// AdvisorConfig configures the best-effort reorder advisory service.
type AdvisorConfig struct {
	Enabled     bool          `mapstructure:"enabled" yaml:"enabled"`
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	BaseBackoff time.Duration `mapstructure:"base_backoff" yaml:"base_backoff"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}
