package types

import "strings"

// Category classifies a catalog place. The set is small and fixed;
// selection rules (food minimums, the single lodging slot, soft caps)
// key off it.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryCafe      Category = "cafe"
	CategoryScenery   Category = "scenery"
	CategoryCulture   Category = "culture"
	CategoryShopping  Category = "shopping"
	CategoryActivity  Category = "activity"
	CategoryNightlife Category = "nightlife"
	CategoryLodging   Category = "lodging"
)

// Categories returns all known categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryCafe,
		CategoryScenery,
		CategoryCulture,
		CategoryShopping,
		CategoryActivity,
		CategoryNightlife,
		CategoryLodging,
	}
}

// IsValid checks if the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryCafe, CategoryScenery, CategoryCulture,
		CategoryShopping, CategoryActivity, CategoryNightlife, CategoryLodging:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory normalizes a raw catalog string into a Category.
// Unknown values map to CategoryActivity so a mistyped catalog row
// still participates in selection rather than vanishing.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c
	}
	return CategoryActivity
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is an immutable catalog record. The engine reads it, never writes it.
type Place struct {
	ID            string   `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Category      Category `json:"category" db:"category"`
	SubCategory   string   `json:"sub_category,omitempty" db:"sub_category"`
	Coord         *LatLng  `json:"coord,omitempty"`
	Rating        float64  `json:"rating,omitempty" db:"rating"`
	HoursHint     string   `json:"hours_hint,omitempty" db:"hours_hint"`
	Description   string   `json:"description,omitempty" db:"description"`
	SponsorLinkID string   `json:"sponsor_link_id,omitempty" db:"sponsor_link_id"`
	City          string   `json:"city" db:"city"`
	District      string   `json:"district,omitempty" db:"district"`
}

// HasCoord reports whether the place carries usable coordinates.
func (p Place) HasCoord() bool {
	return p.Coord != nil
}

// Identity is either a durable authenticated user id or an ephemeral
// anonymous session key. Anonymous identities are exempt from the durable
// daily quota and use the volatile ledger.
type Identity struct {
	Key       string `json:"key"`
	Anonymous bool   `json:"anonymous"`
}

// AuthenticatedIdentity builds an identity for a durable user id.
func AuthenticatedIdentity(userID string) Identity {
	return Identity{Key: userID}
}

// AnonymousIdentity builds an ephemeral guest identity from a session key.
func AnonymousIdentity(sessionKey string) Identity {
	return Identity{Key: "guest:" + sessionKey, Anonymous: true}
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.Key == ""
}

// TimeSlot bands a place into the part of day it best fits.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotMidday    TimeSlot = "midday"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
	// SlotStay is the lodging band; always the final band of an itinerary.
	SlotStay TimeSlot = "stay"
)

// Priority returns the sort band of the slot. Lower comes earlier in the day;
// SlotStay is always last.
func (s TimeSlot) Priority() int {
	switch s {
	case SlotMorning:
		return 0
	case SlotMidday:
		return 1
	case SlotAfternoon:
		return 2
	case SlotEvening:
		return 3
	case SlotNight:
		return 4
	case SlotStay:
		return 5
	default:
		return 2
	}
}

// SelectionRequest is the transient per-call input to a draw.
type SelectionRequest struct {
	Identity    Identity `json:"identity"`
	City        string   `json:"city"`
	District    string   `json:"district,omitempty"`
	TargetCount int      `json:"target_count"`
	Pace        string   `json:"pace,omitempty"`
}

// Reward is a sponsor-backed incentive attached to a result item.
type Reward struct {
	GrantID   ID     `json:"grant_id"`
	SponsorID string `json:"sponsor_id"`
	LinkID    string `json:"link_id"`
	PlaceID   string `json:"place_id"`
	Name      string `json:"name"`
}

// DraftItem is one finalized stop of a draw result.
type DraftItem struct {
	Place    Place    `json:"place"`
	Slot     TimeSlot `json:"slot"`
	Reward   *Reward  `json:"reward,omitempty"`
	Sequence int      `json:"sequence"`
}

// ReorderOutcome records how the advisory reorder pass ended.
// It is informational metadata only; the draw never fails because of it.
type ReorderOutcome string

const (
	ReorderApplied        ReorderOutcome = "reordered"
	ReorderWithRejections ReorderOutcome = "reordered_with_rejections"
	ReorderUnavailable    ReorderOutcome = "unavailable"
	ReorderParseFailed    ReorderOutcome = "parse_failed"
	// ReorderSkipped means the pass never ran (fewer than two places selected).
	ReorderSkipped ReorderOutcome = "skipped"
)

// DrawMeta is the per-draw response metadata.
type DrawMeta struct {
	SessionID        ID             `json:"session_id"`
	RequestedCount   int            `json:"requested_count"`
	ReturnedCount    int            `json:"returned_count"`
	IsShortfall      bool           `json:"is_shortfall"`
	ShortfallMessage string         `json:"shortfall_message,omitempty"`
	ReorderOutcome   ReorderOutcome `json:"reorder_outcome"`
	RemainingQuota   int            `json:"remaining_quota"`
}

// SelectionResult is the ordered outcome of one draw.
type SelectionResult struct {
	Items      []DraftItem `json:"items"`
	RewardsWon []Reward    `json:"rewards_won"`
	Meta       DrawMeta    `json:"meta"`
}

// PlaceIDs returns the place ids of the result in order.
func (r SelectionResult) PlaceIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.Place.ID)
	}
	return ids
}
