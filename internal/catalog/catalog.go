// Package catalog defines the read-only place catalog boundary. Persistence
// and editorial moderation of the catalog live outside the engine.
package catalog

import (
	"context"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Provider supplies catalog places per geographic scope.
type Provider interface {
	// PlacesByDistrict returns up to limit places in one district of a city.
	PlacesByDistrict(ctx context.Context, city, district string, limit int) ([]types.Place, error)

	// PlacesByCity returns up to limit places anywhere in a city.
	PlacesByCity(ctx context.Context, city string, limit int) ([]types.Place, error)

	// CityExists reports whether the catalog knows the city at all.
	CityExists(ctx context.Context, city string) (bool, error)
}

// StaticProvider is an in-memory Provider backed by a fixed slice.
// Used in tests and the CLI demo path.
type StaticProvider struct {
	places []types.Place
}

// NewStaticProvider creates a StaticProvider over the given places.
func NewStaticProvider(places []types.Place) *StaticProvider {
	return &StaticProvider{places: places}
}

// PlacesByDistrict implements Provider.
func (s *StaticProvider) PlacesByDistrict(_ context.Context, city, district string, limit int) ([]types.Place, error) {
	var out []types.Place
	for _, p := range s.places {
		if equalFold(p.City, city) && equalFold(p.District, district) {
			out = append(out, p)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// PlacesByCity implements Provider.
func (s *StaticProvider) PlacesByCity(_ context.Context, city string, limit int) ([]types.Place, error) {
	var out []types.Place
	for _, p := range s.places {
		if equalFold(p.City, city) {
			out = append(out, p)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// CityExists implements Provider.
func (s *StaticProvider) CityExists(_ context.Context, city string) (bool, error) {
	for _, p := range s.places {
		if equalFold(p.City, city) {
			return true, nil
		}
	}
	return false, nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
