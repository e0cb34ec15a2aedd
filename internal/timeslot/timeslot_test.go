package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

func TestInfer_LodgingAlwaysStay(t *testing.T) {
	inf := NewInferrer(DefaultTables())

	// Even a contradictory hours hint cannot move lodging out of the stay band.
	slot := inf.Infer(types.Place{
		Category:  types.CategoryLodging,
		HoursHint: "09:00-18:00",
	})
	assert.Equal(t, types.SlotStay, slot)
}

func TestInfer_HoursHintWinsOverTables(t *testing.T) {
	inf := NewInferrer(DefaultTables())

	tests := []struct {
		hint string
		want types.TimeSlot
	}{
		{"09:00-18:00", types.SlotMorning},
		{"11:30 - 22:00", types.SlotMidday},
		{"open 3pm daily", types.SlotAfternoon},
		{"18:00~02:00", types.SlotEvening},
		{"9pm till late", types.SlotNight},
	}
	for _, tt := range tests {
		slot := inf.Infer(types.Place{
			Category:    types.CategoryFood,
			SubCategory: "bar", // would say night; the hint wins
			HoursHint:   tt.hint,
		})
		assert.Equal(t, tt.want, slot, "hint %q", tt.hint)
	}
}

func TestInfer_SubCategoryBeforeCategory(t *testing.T) {
	inf := NewInferrer(DefaultTables())

	slot := inf.Infer(types.Place{Category: types.CategoryFood, SubCategory: "Bakery"})
	assert.Equal(t, types.SlotMorning, slot)
}

func TestInfer_CategoryDefault(t *testing.T) {
	inf := NewInferrer(DefaultTables())

	slot := inf.Infer(types.Place{Category: types.CategoryNightlife, SubCategory: "unknown-sub"})
	assert.Equal(t, types.SlotNight, slot)
}

func TestInfer_NeutralFallback(t *testing.T) {
	inf := NewInferrer(Tables{})

	slot := inf.Infer(types.Place{Category: types.CategoryFood})
	assert.Equal(t, types.SlotAfternoon, slot)
}

func TestParseOpeningHour_RejectsAmbiguousNumbers(t *testing.T) {
	tests := []struct {
		hint string
		ok   bool
	}{
		{"24 seats", false},
		{"7 floors of shopping", false},
		{"", false},
		{"opens at 7:00", true},
		{"7am-3pm", true},
	}
	for _, tt := range tests {
		_, ok := parseOpeningHour(tt.hint)
		assert.Equal(t, tt.ok, ok, "hint %q", tt.hint)
	}
}

func TestParseOpeningHour_MeridiemAdjustment(t *testing.T) {
	hour, ok := parseOpeningHour("12am-5am")
	assert.True(t, ok)
	assert.Equal(t, 0, hour)

	hour, ok = parseOpeningHour("12pm lunch start")
	assert.True(t, ok)
	assert.Equal(t, 12, hour)
}
