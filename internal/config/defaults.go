package config

import "time"

// DefaultConfig returns the baseline configuration. Values mirror the
// production rule tables; markets override them via YAML.
func DefaultConfig() *Config {
	return &Config{
		Database: DBConfig{
			Path:         "mibu.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5 * time.Second,
		},
		Selection: SelectionConfig{
			MinTargetCount: 1,
			MaxTargetCount: 12,
			FoodMinimums: []FoodTier{
				{MinTarget: 1, FoodMin: 1},
				{MinTarget: 4, FoodMin: 2},
				{MinTarget: 7, FoodMin: 3},
				{MinTarget: 10, FoodMin: 4},
			},
			LodgingThreshold:  9,
			SoftCapRatio:      0.5,
			CategoryWeights:   map[string]float64{},
			CatalogFetchLimit: 200,
		},
		Ledger: LedgerConfig{
			MaxRecent:     30,
			AnonymousTTL:  30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Quota: QuotaConfig{
			DailyCeiling:   36,
			AnonymousRate:  0.2,
			AnonymousBurst: 6,
			IdleTTL:        30 * time.Minute,
			SweepInterval:  5 * time.Minute,
		},
		Reward: RewardConfig{
			DefaultDropRate: 0.1,
		},
		Advisor: AdvisorConfig{
			Enabled:     true,
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     10 * time.Second,
			MaxAttempts: 3,
			BaseBackoff: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "mibu",
		},
	}
}
