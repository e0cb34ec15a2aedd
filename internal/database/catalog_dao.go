package database

import (
	"context"
	"database/sql"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// CatalogDAO reads the place catalog. The catalog is editorially owned
// elsewhere; this engine only reads it (plus a seed helper for fixtures).
type CatalogDAO struct {
	db *DB
}

// NewCatalogDAO creates a new CatalogDAO.
func NewCatalogDAO(db *DB) *CatalogDAO {
	return &CatalogDAO{db: db}
}

const placeColumns = `id, name, category, sub_category, lat, lng, rating, hours_hint, description, sponsor_link_id, city, district`

// PlacesByDistrict returns up to limit places in a city district.
func (d *CatalogDAO) PlacesByDistrict(ctx context.Context, city, district string, limit int) ([]types.Place, error) {
	rows, err := d.db.conn.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE city = ? AND district = ? LIMIT ?`,
		city, district, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "querying places by district", err)
	}
	defer rows.Close()

	return scanPlaces(rows)
}

// PlacesByCity returns up to limit places in a city, any district.
func (d *CatalogDAO) PlacesByCity(ctx context.Context, city string, limit int) ([]types.Place, error) {
	rows, err := d.db.conn.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE city = ? LIMIT ?`,
		city, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "querying places by city", err)
	}
	defer rows.Close()

	return scanPlaces(rows)
}

// CityExists reports whether the catalog knows the city at all.
// Distinguishes REGION_NOT_FOUND from an empty-but-known region.
func (d *CatalogDAO) CityExists(ctx context.Context, city string) (bool, error) {
	var one int
	err := d.db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM places WHERE city = ? LIMIT 1`, city).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, types.WrapError(types.DB_QUERY_FAILED, "checking city", err)
	}
	return true, nil
}

// InsertPlace writes a catalog row. Used by fixtures and the CLI seed path.
func (d *CatalogDAO) InsertPlace(ctx context.Context, p types.Place) error {
	var lat, lng any
	if p.Coord != nil {
		lat, lng = p.Coord.Lat, p.Coord.Lng
	}
	_, err := d.db.conn.ExecContext(ctx,
		`INSERT INTO places (`+placeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.Category), p.SubCategory, lat, lng,
		p.Rating, p.HoursHint, p.Description, p.SponsorLinkID, p.City, p.District)
	if err != nil {
		return types.WrapError(types.DB_WRITE_FAILED, "inserting place", err)
	}
	return nil
}

func scanPlaces(rows *sql.Rows) ([]types.Place, error) {
	var places []types.Place
	for rows.Next() {
		var (
			p        types.Place
			category string
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.SubCategory, &lat, &lng,
			&p.Rating, &p.HoursHint, &p.Description, &p.SponsorLinkID, &p.City, &p.District); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "scanning place row", err)
		}
		p.Category = types.ParseCategory(category)
		if lat.Valid && lng.Valid {
			p.Coord = &types.LatLng{Lat: lat.Float64, Lng: lng.Float64}
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterating place rows", err)
	}
	return places, nil
}
