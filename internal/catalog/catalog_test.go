package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

func fixturePlaces() []types.Place {
	return []types.Place{
		{ID: "p1", City: "seoul", District: "jongno", Category: types.CategoryFood},
		{ID: "p2", City: "seoul", District: "jongno", Category: types.CategoryCafe},
		{ID: "p3", City: "seoul", District: "gangnam", Category: types.CategoryFood},
		{ID: "p4", City: "busan", District: "haeundae", Category: types.CategoryScenery},
	}
}

func TestStaticProvider_PlacesByDistrict(t *testing.T) {
	p := NewStaticProvider(fixturePlaces())

	places, err := p.PlacesByDistrict(context.Background(), "seoul", "jongno", 10)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}

func TestStaticProvider_PlacesByCityRespectsLimit(t *testing.T) {
	p := NewStaticProvider(fixturePlaces())

	places, err := p.PlacesByCity(context.Background(), "seoul", 2)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}

func TestStaticProvider_CityMatchIsCaseInsensitive(t *testing.T) {
	p := NewStaticProvider(fixturePlaces())

	places, err := p.PlacesByCity(context.Background(), "Seoul", 10)
	require.NoError(t, err)
	assert.Len(t, places, 3)

	exists, err := p.CityExists(context.Background(), "BUSAN")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStaticProvider_UnknownCity(t *testing.T) {
	p := NewStaticProvider(fixturePlaces())

	exists, err := p.CityExists(context.Background(), "atlantis")
	require.NoError(t, err)
	assert.False(t, exists)

	places, err := p.PlacesByCity(context.Background(), "atlantis", 10)
	require.NoError(t, err)
	assert.Empty(t, places)
}
