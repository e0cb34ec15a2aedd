package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaosmibu-blip/mibu/internal/timeslot"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

func newSequencer() *Sequencer {
	return New(timeslot.NewInferrer(timeslot.DefaultTables()))
}

func coordPlace(id string, category types.Category, lat, lng float64) types.Place {
	return types.Place{ID: id, Category: category, Coord: &types.LatLng{Lat: lat, Lng: lng}}
}

func itemIDs(items []types.DraftItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Place.ID)
	}
	return ids
}

func TestSequence_NearestNeighborWalk(t *testing.T) {
	// Same category, so slot banding cannot reshuffle the geographic walk.
	// Three stops on a line: the walk must visit them in line order from the
	// south-west extreme.
	places := []types.Place{
		coordPlace("mid", types.CategoryScenery, 0, 1),
		coordPlace("far", types.CategoryScenery, 0, 2),
		coordPlace("west", types.CategoryScenery, 0, 0),
	}

	items := newSequencer().Sequence(places)

	assert.Equal(t, []string{"west", "mid", "far"}, itemIDs(items))
}

func TestSequence_CoordinatelessAppended(t *testing.T) {
	places := []types.Place{
		{ID: "nowhere", Category: types.CategoryScenery},
		coordPlace("a", types.CategoryScenery, 0, 0),
		coordPlace("b", types.CategoryScenery, 0, 1),
	}

	items := newSequencer().Sequence(places)

	assert.Equal(t, []string{"a", "b", "nowhere"}, itemIDs(items))
}

func TestSequence_SinglePlacePassThrough(t *testing.T) {
	places := []types.Place{{ID: "only", Category: types.CategoryFood}}

	items := newSequencer().Sequence(places)

	require.Len(t, items, 1)
	assert.Equal(t, "only", items[0].Place.ID)
	assert.Equal(t, 0, items[0].Sequence)
}

func TestSequence_SlotBandsOverrideGeography(t *testing.T) {
	// The bar is geographically first but belongs to the night band, so it
	// must sort after the morning scenery stop.
	places := []types.Place{
		coordPlace("bar", types.CategoryNightlife, 0, 0),
		coordPlace("lookout", types.CategoryScenery, 0, 1),
	}

	items := newSequencer().Sequence(places)

	assert.Equal(t, []string{"lookout", "bar"}, itemIDs(items))
	assert.Equal(t, types.SlotMorning, items[0].Slot)
	assert.Equal(t, types.SlotNight, items[1].Slot)
}

func TestSequence_LodgingAlwaysLast(t *testing.T) {
	places := []types.Place{
		coordPlace("hotel", types.CategoryLodging, 0, 0), // geographically first
		coordPlace("bar", types.CategoryNightlife, 0, 1),
		coordPlace("brunch", types.CategoryFood, 0, 2),
	}
	places[2].SubCategory = "brunch"

	items := newSequencer().Sequence(places)

	require.Len(t, items, 3)
	assert.Equal(t, "hotel", items[len(items)-1].Place.ID)
	assert.Equal(t, types.SlotStay, items[len(items)-1].Slot)
}

func TestSequence_GeographicSubOrderStableWithinBand(t *testing.T) {
	// Two afternoon stops: their relative order must follow the walk.
	places := []types.Place{
		coordPlace("cafe-far", types.CategoryCafe, 0, 5),
		coordPlace("cafe-near", types.CategoryCafe, 0, 1),
		coordPlace("lookout", types.CategoryScenery, 0, 0),
	}

	items := newSequencer().Sequence(places)

	assert.Equal(t, []string{"lookout", "cafe-near", "cafe-far"}, itemIDs(items))
}

func TestSequence_SequenceIndicesContiguous(t *testing.T) {
	places := []types.Place{
		coordPlace("a", types.CategoryFood, 1, 1),
		coordPlace("b", types.CategoryCafe, 2, 2),
		{ID: "c", Category: types.CategoryScenery},
	}

	items := newSequencer().Sequence(places)

	for i, item := range items {
		assert.Equal(t, i, item.Sequence)
	}
}

func TestSequence_EmptyInput(t *testing.T) {
	assert.Empty(t, newSequencer().Sequence(nil))
}
