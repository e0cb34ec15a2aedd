package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStructuredJSON(t *testing.T) {
	parsed := Parse(`{"order": [3, 1, 2], "reject": [4], "reason": "lunch before the museum"}`)

	assert.Equal(t, ParseStructured, parsed.Kind)
	assert.Equal(t, []int{3, 1, 2}, parsed.Order)
	assert.Equal(t, []int{4}, parsed.Reject)
	assert.Equal(t, "lunch before the museum", parsed.Rationale)
}

func TestParseJSONInCodeBlock(t *testing.T) {
	response := "Here is the plan:\n```json\n{\"order\": [2, 1], \"reject\": [], \"reason\": \"ok\"}\n```\nEnjoy!"
	parsed := Parse(response)

	assert.Equal(t, ParseStructured, parsed.Kind)
	assert.Equal(t, []int{2, 1}, parsed.Order)
	assert.Empty(t, parsed.Reject)
}

func TestParseJSONBuriedInProse(t *testing.T) {
	response := `Sure! I would suggest {"order": [1, 3, 2], "reject": [], "reason": "flow"} as the plan.`
	parsed := Parse(response)

	assert.Equal(t, ParseStructured, parsed.Kind)
	assert.Equal(t, []int{1, 3, 2}, parsed.Order)
}

func TestParsePartialFromFreeText(t *testing.T) {
	parsed := Parse("I think the best order: 3, 1, 2. Reject: 5 because it is closed.")

	assert.Equal(t, ParsePartial, parsed.Kind)
	assert.Equal(t, []int{3, 1, 2}, parsed.Order)
	assert.Equal(t, []int{5}, parsed.Reject)
}

func TestParsePartialOrderOnly(t *testing.T) {
	parsed := Parse("order = 2 1 3")

	assert.Equal(t, ParsePartial, parsed.Kind)
	assert.Equal(t, []int{2, 1, 3}, parsed.Order)
	assert.Empty(t, parsed.Reject)
}

func TestParseUnparseable(t *testing.T) {
	for _, response := range []string{
		"",
		"   ",
		"I cannot help with that.",
		`{"order": [], "reject": [], "reason": "nothing"}`,
		"{broken json",
	} {
		parsed := Parse(response)
		assert.Equal(t, ParseUnparseable, parsed.Kind, "response %q", response)
	}
}

func TestParseStructuredWinsOverScrape(t *testing.T) {
	// The prose mentions an order too; the JSON object must take priority.
	response := `The order: 9, 9, 9 below is wrong, use {"order": [2, 1], "reject": [], "reason": "x"}`
	parsed := Parse(response)

	assert.Equal(t, ParseStructured, parsed.Kind)
	assert.Equal(t, []int{2, 1}, parsed.Order)
}

func TestExtractJSONSkipsTaggedNonJSONBlocks(t *testing.T) {
	response := "```python\nprint('hi')\n```\n```json\n{\"order\": [1, 2]}\n```"
	jsonStr, ok := extractJSON(response)

	assert.True(t, ok)
	assert.JSONEq(t, `{"order": [1, 2]}`, jsonStr)
}

func TestFindMatchingBracketHandlesStrings(t *testing.T) {
	s := `{"reason": "brace } inside", "order": [1, 2]}`
	assert.Equal(t, s, findMatchingBracket(s, '{', '}'))
}
