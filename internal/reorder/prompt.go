package reorder

import (
	"fmt"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

const systemPrompt = `You are a local trip-planning assistant. You will be given a numbered list of stops for a single day. Suggest a better visiting order considering opening hours, category flow (meals spaced out, nightlife late, lodging last) and variety.

Respond with ONLY a JSON object, no prose and no markdown fences:
{"order": [stop numbers in your suggested visiting order], "reject": [stop numbers that should be dropped, or an empty array], "reason": "one short sentence"}

Use the stop numbers exactly as given. Every number you output must come from the list.`

const (
	maxDescChars  = 80
	maxHoursChars = 40
)

// BuildPrompt renders the numbered stop list the advisory model reorders.
// Stop numbers are 1-based; the same numbering is expected back in the
// response and vetted before use.
func BuildPrompt(places []types.Place) (string, string) {
	var b strings.Builder
	b.WriteString("Stops for today:\n")
	for i, p := range places {
		fmt.Fprintf(&b, "%d. %s [%s]", i+1, p.Name, p.Category)
		if desc := truncate(p.Description, maxDescChars); desc != "" {
			fmt.Fprintf(&b, " - %s", desc)
		}
		if hours := truncate(p.HoursHint, maxHoursChars); hours != "" {
			fmt.Fprintf(&b, " (hours: %s)", hours)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nSuggest the visiting order.")
	return systemPrompt, b.String()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return strings.TrimSpace(s[:limit]) + "..."
}
