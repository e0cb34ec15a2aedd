package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

func seedPlace(t *testing.T, dao *CatalogDAO, id, city, district string, category types.Category, coord *types.LatLng) {
	t.Helper()
	require.NoError(t, dao.InsertPlace(context.Background(), types.Place{
		ID:       id,
		Name:     "Place " + id,
		Category: category,
		Coord:    coord,
		City:     city,
		District: district,
	}))
}

func TestCatalogDAO_PlacesByDistrict(t *testing.T) {
	dao := NewCatalogDAO(openTestDB(t))
	ctx := context.Background()

	seedPlace(t, dao, "p1", "seoul", "jongno", types.CategoryFood, &types.LatLng{Lat: 37.57, Lng: 126.98})
	seedPlace(t, dao, "p2", "seoul", "jongno", types.CategoryCafe, nil)
	seedPlace(t, dao, "p3", "seoul", "gangnam", types.CategoryFood, nil)
	seedPlace(t, dao, "p4", "busan", "haeundae", types.CategoryScenery, nil)

	places, err := dao.PlacesByDistrict(ctx, "seoul", "jongno", 50)
	require.NoError(t, err)
	require.Len(t, places, 2)

	byID := map[string]types.Place{}
	for _, p := range places {
		byID[p.ID] = p
	}
	assert.Equal(t, types.CategoryFood, byID["p1"].Category)
	require.NotNil(t, byID["p1"].Coord)
	assert.InDelta(t, 37.57, byID["p1"].Coord.Lat, 1e-9)
	assert.Nil(t, byID["p2"].Coord)
}

func TestCatalogDAO_PlacesByCity(t *testing.T) {
	dao := NewCatalogDAO(openTestDB(t))
	ctx := context.Background()

	seedPlace(t, dao, "p1", "seoul", "jongno", types.CategoryFood, nil)
	seedPlace(t, dao, "p2", "seoul", "gangnam", types.CategoryCafe, nil)
	seedPlace(t, dao, "p3", "busan", "haeundae", types.CategoryScenery, nil)

	places, err := dao.PlacesByCity(ctx, "seoul", 50)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}

func TestCatalogDAO_CityExists(t *testing.T) {
	dao := NewCatalogDAO(openTestDB(t))
	ctx := context.Background()

	seedPlace(t, dao, "p1", "seoul", "jongno", types.CategoryFood, nil)

	exists, err := dao.CityExists(ctx, "seoul")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = dao.CityExists(ctx, "atlantis")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCatalogDAO_UnknownCategoryNormalized(t *testing.T) {
	db := openTestDB(t)
	dao := NewCatalogDAO(db)
	ctx := context.Background()

	_, err := db.Conn().ExecContext(ctx,
		`INSERT INTO places (id, name, category, city) VALUES ('px', 'Mystery', 'karaoke', 'seoul')`)
	require.NoError(t, err)

	places, err := dao.PlacesByCity(ctx, "seoul", 10)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, types.CategoryActivity, places[0].Category)
}
