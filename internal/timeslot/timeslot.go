// Package timeslot infers the part of day a place best fits. Inference is
// pure and deterministic; all lookup tables are injected configuration.
package timeslot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Tables holds the injected slot lookup tables. Precedence during inference:
// opening-hours hint, then sub-category, then category, then Neutral.
type Tables struct {
	SubCategory map[string]types.TimeSlot
	Category    map[types.Category]types.TimeSlot
	Neutral     types.TimeSlot
}

// DefaultTables returns the baseline slot tables. Markets may override.
func DefaultTables() Tables {
	return Tables{
		SubCategory: map[string]types.TimeSlot{
			"bakery":    types.SlotMorning,
			"brunch":    types.SlotMorning,
			"market":    types.SlotMorning,
			"museum":    types.SlotMidday,
			"gallery":   types.SlotMidday,
			"dessert":   types.SlotAfternoon,
			"viewpoint": types.SlotEvening,
			"bbq":       types.SlotEvening,
			"bar":       types.SlotNight,
			"pub":       types.SlotNight,
		},
		Category: map[types.Category]types.TimeSlot{
			types.CategoryFood:      types.SlotMidday,
			types.CategoryCafe:      types.SlotAfternoon,
			types.CategoryScenery:   types.SlotMorning,
			types.CategoryCulture:   types.SlotMidday,
			types.CategoryShopping:  types.SlotAfternoon,
			types.CategoryActivity:  types.SlotAfternoon,
			types.CategoryNightlife: types.SlotNight,
			types.CategoryLodging:   types.SlotStay,
		},
		Neutral: types.SlotAfternoon,
	}
}

// hourPattern matches the first clock time of an hours hint, e.g. "09:00",
// "9am", "10 AM".
var hourPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// Inferrer maps a place to its time slot.
type Inferrer struct {
	tables Tables
}

// NewInferrer creates an Inferrer over the given tables.
func NewInferrer(tables Tables) *Inferrer {
	if tables.Neutral == "" {
		tables.Neutral = types.SlotAfternoon
	}
	return &Inferrer{tables: tables}
}

// Infer returns the slot for a place. Lodging is always SlotStay regardless
// of hints or tables.
func (i *Inferrer) Infer(p types.Place) types.TimeSlot {
	if p.Category == types.CategoryLodging {
		return types.SlotStay
	}

	if hour, ok := parseOpeningHour(p.HoursHint); ok {
		return slotForHour(hour)
	}

	if sub := strings.ToLower(strings.TrimSpace(p.SubCategory)); sub != "" {
		if slot, ok := i.tables.SubCategory[sub]; ok {
			return slot
		}
	}

	if slot, ok := i.tables.Category[p.Category]; ok {
		return slot
	}

	return i.tables.Neutral
}

// parseOpeningHour extracts the opening hour from a free-form hours hint.
// Returns false when no plausible clock time is present.
func parseOpeningHour(hint string) (int, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return 0, false
	}

	match := hourPattern.FindStringSubmatch(hint)
	if match == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	meridiem := strings.ToLower(match[3])
	// A bare one- or two-digit number with no minutes and no meridiem is too
	// ambiguous to trust ("24 seats", "7 floors").
	if match[2] == "" && meridiem == "" {
		return 0, false
	}

	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// slotForHour bands an opening hour into a slot.
func slotForHour(hour int) types.TimeSlot {
	switch {
	case hour >= 5 && hour <= 10:
		return types.SlotMorning
	case hour >= 11 && hour <= 13:
		return types.SlotMidday
	case hour >= 14 && hour <= 16:
		return types.SlotAfternoon
	case hour >= 17 && hour <= 20:
		return types.SlotEvening
	default:
		return types.SlotNight
	}
}
