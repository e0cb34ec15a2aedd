package database

import (
	"context"
	"database/sql"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// SponsorRewardItem is one entry of a sponsor's active reward catalog.
type SponsorRewardItem struct {
	ID   string
	Name string
}

// SponsorLink ties a place to a sponsor with an optional link-specific
// drop rate and the sponsor's active reward catalog.
type SponsorLink struct {
	ID        string
	SponsorID string
	PlaceID   string
	DropRate  *float64 // nil means use the configured default
	Rewards   []SponsorRewardItem
}

// RewardGrant is one persisted reward issuance.
type RewardGrant struct {
	ID         types.ID
	Identity   string
	PlaceID    string
	SponsorID  string
	LinkID     string
	RewardID   string
	RewardName string
}

// RewardDAO reads sponsor links and persists reward grants.
type RewardDAO struct {
	db *DB
}

// NewRewardDAO creates a new RewardDAO.
func NewRewardDAO(db *DB) *RewardDAO {
	return &RewardDAO{db: db}
}

// RewardLinkForPlace returns the active sponsor link for a place with its
// active reward catalog, or nil if the place has no active link.
func (d *RewardDAO) RewardLinkForPlace(ctx context.Context, placeID string) (*SponsorLink, error) {
	var (
		link     SponsorLink
		dropRate sql.NullFloat64
	)
	err := d.db.conn.QueryRowContext(ctx,
		`SELECT id, sponsor_id, place_id, drop_rate FROM sponsor_links
		 WHERE place_id = ? AND active = 1 LIMIT 1`, placeID).
		Scan(&link.ID, &link.SponsorID, &link.PlaceID, &dropRate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "querying sponsor link", err)
	}
	if dropRate.Valid {
		rate := dropRate.Float64
		link.DropRate = &rate
	}

	rows, err := d.db.conn.QueryContext(ctx,
		`SELECT id, name FROM sponsor_rewards WHERE link_id = ? AND active = 1`, link.ID)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "querying sponsor rewards", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item SponsorRewardItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "scanning sponsor reward", err)
		}
		link.Rewards = append(link.Rewards, item)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterating sponsor rewards", err)
	}

	return &link, nil
}

// InsertGrant persists a reward grant. Grant persistence is critical:
// callers must propagate a failure rather than swallow it.
func (d *RewardDAO) InsertGrant(ctx context.Context, grant RewardGrant) error {
	_, err := d.db.conn.ExecContext(ctx,
		`INSERT INTO reward_grants (id, identity, place_id, sponsor_id, link_id, reward_id, reward_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		grant.ID.String(), grant.Identity, grant.PlaceID, grant.SponsorID,
		grant.LinkID, grant.RewardID, grant.RewardName)
	if err != nil {
		return types.WrapError(types.REWARD_GRANT_FAILED, "inserting reward grant", err)
	}
	return nil
}

// InsertSponsorLink writes a sponsor link row. Fixture/seed helper.
func (d *RewardDAO) InsertSponsorLink(ctx context.Context, link SponsorLink) error {
	var rate any
	if link.DropRate != nil {
		rate = *link.DropRate
	}
	_, err := d.db.conn.ExecContext(ctx,
		`INSERT INTO sponsor_links (id, sponsor_id, place_id, drop_rate, active) VALUES (?, ?, ?, ?, 1)`,
		link.ID, link.SponsorID, link.PlaceID, rate)
	if err != nil {
		return types.WrapError(types.DB_WRITE_FAILED, "inserting sponsor link", err)
	}
	for _, item := range link.Rewards {
		_, err := d.db.conn.ExecContext(ctx,
			`INSERT INTO sponsor_rewards (id, link_id, name, active) VALUES (?, ?, ?, 1)`,
			item.ID, link.ID, item.Name)
		if err != nil {
			return types.WrapError(types.DB_WRITE_FAILED, "inserting sponsor reward", err)
		}
	}
	return nil
}
