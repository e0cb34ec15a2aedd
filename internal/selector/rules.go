package selector

import (
	"math"

	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Rules are the per-draw category constraints, derived from the target count
// and the market's selection configuration.
type Rules struct {
	TargetCount int

	// FoodMin is the minimum number of food-category places.
	FoodMin int

	// LodgingSlot reserves exactly one lodging place.
	LodgingSlot bool

	// SoftCap bounds any single category's count in the result. Lodging is
	// capped at one by LodgingSlot and never drawn as filler.
	SoftCap int

	// Weights bias the roulette draw for filler slots.
	Weights map[types.Category]float64
}

// DeriveRules computes the Rules for a target count.
func DeriveRules(cfg config.SelectionConfig, targetCount int) Rules {
	// Floor, so a category can reach half the result but never exceed it.
	softCap := int(math.Floor(float64(targetCount) * cfg.SoftCapRatio))
	if softCap < 1 {
		softCap = 1
	}

	weights := make(map[types.Category]float64, len(types.Categories()))
	for _, c := range types.Categories() {
		weights[c] = cfg.WeightFor(string(c))
	}

	foodMin := cfg.FoodMinimumFor(targetCount)
	if foodMin > targetCount {
		foodMin = targetCount
	}

	return Rules{
		TargetCount: targetCount,
		FoodMin:     foodMin,
		LodgingSlot: cfg.LodgingSlotFor(targetCount),
		SoftCap:     softCap,
		Weights:     weights,
	}
}
