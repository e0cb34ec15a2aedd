package reorder

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ParseKind tags how much structure survived parsing an advisory response.
type ParseKind int

const (
	// ParseUnparseable means nothing usable was recovered.
	ParseUnparseable ParseKind = iota
	// ParsePartial means the order list was regex-scraped out of free text.
	ParsePartial
	// ParseStructured means the response carried the expected JSON object.
	ParseStructured
)

// Parsed is the tagged result of parsing one advisory response. Indices are
// raw 1-based stop numbers as sent in the prompt; nothing here is vetted.
type Parsed struct {
	Kind      ParseKind
	Order     []int
	Reject    []int
	Rationale string
}

// wireResponse is the JSON contract the prompt asks the model for.
type wireResponse struct {
	Order  []int  `json:"order"`
	Reject []int  `json:"reject"`
	Reason string `json:"reason"`
}

// Fallback scrapers for responses that ignore the JSON contract but still
// name their lists, e.g. `order: 3, 1, 2` or `REJECT [4]`.
var (
	orderListPattern  = regexp.MustCompile(`(?i)"?order"?\s*[:=]?\s*\[?\s*((?:\d+\s*[,\s]\s*)*\d+)\s*\]?`)
	rejectListPattern = regexp.MustCompile(`(?i)"?reject\w*"?\s*[:=]?\s*\[?\s*((?:\d+\s*[,\s]\s*)*\d+)\s*\]?`)
)

// Parse defensively parses an advisory response. Strict structured parse
// first; then regex extraction of order/reject lists; else unparseable.
func Parse(response string) Parsed {
	response = strings.TrimSpace(response)
	if response == "" {
		return Parsed{Kind: ParseUnparseable}
	}

	if jsonStr, ok := extractJSON(response); ok {
		var wire wireResponse
		if err := json.Unmarshal([]byte(jsonStr), &wire); err == nil && len(wire.Order) > 0 {
			return Parsed{
				Kind:      ParseStructured,
				Order:     wire.Order,
				Reject:    wire.Reject,
				Rationale: strings.TrimSpace(wire.Reason),
			}
		}
	}

	if match := orderListPattern.FindStringSubmatch(response); match != nil {
		parsed := Parsed{
			Kind:  ParsePartial,
			Order: scrapeInts(match[1]),
		}
		if rejectMatch := rejectListPattern.FindStringSubmatch(response); rejectMatch != nil {
			parsed.Reject = scrapeInts(rejectMatch[1])
		}
		if len(parsed.Order) > 0 {
			return parsed
		}
	}

	return Parsed{Kind: ParseUnparseable}
}

// scrapeInts splits a loosely delimited number list.
func scrapeInts(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
	ints := make([]int, 0, len(fields))
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			ints = append(ints, n)
		}
	}
	return ints
}
