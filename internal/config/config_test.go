package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_PassesValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, NewValidator().Validate(cfg))
}

func TestFoodMinimumFor_TierTable(t *testing.T) {
	sel := DefaultConfig().Selection

	tests := []struct {
		target int
		want   int
	}{
		{1, 1},
		{3, 1},
		{4, 2},
		{6, 2},
		{7, 3},
		{8, 3},
		{9, 3},
		{10, 4},
		{12, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sel.FoodMinimumFor(tt.target), "target %d", tt.target)
	}
}

func TestFoodMinimumFor_NoMatchingTier(t *testing.T) {
	sel := SelectionConfig{FoodMinimums: []FoodTier{{MinTarget: 5, FoodMin: 2}}}
	assert.Equal(t, 0, sel.FoodMinimumFor(3))
}

func TestLodgingSlotFor(t *testing.T) {
	sel := DefaultConfig().Selection
	assert.False(t, sel.LodgingSlotFor(8))
	assert.True(t, sel.LodgingSlotFor(9))
	assert.True(t, sel.LodgingSlotFor(12))

	// Threshold zero disables the lodging slot entirely.
	assert.False(t, SelectionConfig{}.LodgingSlotFor(12))
}

func TestWeightFor_Defaults(t *testing.T) {
	sel := SelectionConfig{CategoryWeights: map[string]float64{"food": 2.5}}
	assert.Equal(t, 2.5, sel.WeightFor("food"))
	assert.Equal(t, 1.0, sel.WeightFor("scenery"))
	assert.Equal(t, 1.0, sel.WeightFor("unknown"))
}

func TestQuotaConfig_IsExempt(t *testing.T) {
	q := QuotaConfig{ExemptIdentities: []string{"ops-crawler", "qa-bot"}}
	assert.True(t, q.IsExempt("qa-bot"))
	assert.False(t, q.IsExempt("user-1"))
}

func TestValidator_CollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = ""
	cfg.Selection.SoftCapRatio = 0
	cfg.Quota.DailyCeiling = 0

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.path")
	assert.Contains(t, err.Error(), "soft_cap_ratio")
	assert.Contains(t, err.Error(), "daily_ceiling")
}

func TestValidator_RejectsUnknownWeightCategory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selection.CategoryWeights = map[string]float64{"karaoke": 1}

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "karaoke")
}
