// Package sequence orders a selected place set for touring: a greedy
// nearest-neighbor pass over coordinates, then a stable time-of-day banding.
package sequence

import (
	"sort"

	"github.com/chaosmibu-blip/mibu/internal/timeslot"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Sequencer arranges places geographically and by inferred time slot.
type Sequencer struct {
	inferrer *timeslot.Inferrer
}

// New creates a Sequencer over the given slot inferrer.
func New(inferrer *timeslot.Inferrer) *Sequencer {
	return &Sequencer{inferrer: inferrer}
}

// Sequence orders the places and assigns each its time slot. The geographic
// pass is a deliberate O(n²) nearest-neighbor heuristic, fine at the ≤12-stop
// scale; the slot pass is a stable sort by band priority, so geographic
// sub-order survives within a band. Lodging always lands in the final band.
func (s *Sequencer) Sequence(places []types.Place) []types.DraftItem {
	ordered := geographicOrder(places)

	items := make([]types.DraftItem, 0, len(ordered))
	for _, place := range ordered {
		items = append(items, types.DraftItem{
			Place: place,
			Slot:  s.inferrer.Infer(place),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Slot.Priority() < items[j].Slot.Priority()
	})

	for i := range items {
		items[i].Sequence = i
	}
	return items
}

// geographicOrder runs the nearest-neighbor walk. With at most one
// coordinate-bearing place there is nothing to walk: input order is kept,
// coordinate-less places appended.
func geographicOrder(places []types.Place) []types.Place {
	var located, unlocated []types.Place
	for _, p := range places {
		if p.HasCoord() {
			located = append(located, p)
		} else {
			unlocated = append(unlocated, p)
		}
	}

	if len(located) <= 1 {
		return append(located, unlocated...)
	}

	ordered := make([]types.Place, 0, len(places))
	remaining := make([]types.Place, len(located))
	copy(remaining, located)

	// Start from the extreme coordinate so the walk sweeps across the area
	// instead of starting mid-cluster.
	start := extremeIndex(remaining)
	ordered = append(ordered, remaining[start])
	remaining = append(remaining[:start], remaining[start+1:]...)

	for len(remaining) > 0 {
		last := ordered[len(ordered)-1]
		nearest := 0
		nearestDist := squaredDistance(*last.Coord, *remaining[0].Coord)
		for i := 1; i < len(remaining); i++ {
			if d := squaredDistance(*last.Coord, *remaining[i].Coord); d < nearestDist {
				nearest = i
				nearestDist = d
			}
		}
		ordered = append(ordered, remaining[nearest])
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	return append(ordered, unlocated...)
}

// extremeIndex returns the index of the south-westernmost place.
func extremeIndex(places []types.Place) int {
	best := 0
	for i := 1; i < len(places); i++ {
		c, b := places[i].Coord, places[best].Coord
		if c.Lng < b.Lng || (c.Lng == b.Lng && c.Lat < b.Lat) {
			best = i
		}
	}
	return best
}

// squaredDistance is the squared Euclidean distance between two coordinates.
// Only relative order matters, so the square root is skipped.
func squaredDistance(a, b types.LatLng) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}
