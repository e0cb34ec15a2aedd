package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

func TestDeriveRules_FoodTiersAndLodging(t *testing.T) {
	cfg := config.DefaultConfig().Selection

	tests := []struct {
		target      int
		wantFood    int
		wantLodging bool
		wantCap     int
	}{
		{3, 1, false, 1},
		{7, 3, false, 3},
		{8, 3, false, 4},
		{9, 3, true, 4},
		{12, 4, true, 6},
	}
	for _, tt := range tests {
		rules := DeriveRules(cfg, tt.target)
		assert.Equal(t, tt.target, rules.TargetCount)
		assert.Equal(t, tt.wantFood, rules.FoodMin, "food min for target %d", tt.target)
		assert.Equal(t, tt.wantLodging, rules.LodgingSlot, "lodging for target %d", tt.target)
		assert.Equal(t, tt.wantCap, rules.SoftCap, "soft cap for target %d", tt.target)
	}
}

func TestDeriveRules_FoodMinNeverExceedsTarget(t *testing.T) {
	cfg := config.SelectionConfig{
		FoodMinimums: []config.FoodTier{{MinTarget: 1, FoodMin: 5}},
		SoftCapRatio: 0.5,
	}
	rules := DeriveRules(cfg, 2)
	assert.Equal(t, 2, rules.FoodMin)
}

func TestDeriveRules_WeightsCoverAllCategories(t *testing.T) {
	cfg := config.DefaultConfig().Selection
	cfg.CategoryWeights = map[string]float64{"food": 3}

	rules := DeriveRules(cfg, 8)
	assert.Equal(t, 3.0, rules.Weights[types.CategoryFood])
	assert.Equal(t, 1.0, rules.Weights[types.CategoryScenery])
	assert.Len(t, rules.Weights, len(types.Categories()))
}
