package database

import (
	"context"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// HistoryDAO persists per-identity draw history rows. The durable ledger
// derives its recent-id set from these.
type HistoryDAO struct {
	db *DB
}

// NewHistoryDAO creates a new HistoryDAO.
func NewHistoryDAO(db *DB) *HistoryDAO {
	return &HistoryDAO{db: db}
}

// RecentPlaceIDs returns the most recently drawn place ids for an identity,
// newest first, up to limit rows. Ids may repeat across sessions; callers
// dedupe.
func (d *HistoryDAO) RecentPlaceIDs(ctx context.Context, identity string, limit int) ([]string, error) {
	rows, err := d.db.conn.QueryContext(ctx,
		`SELECT place_id FROM draw_history WHERE identity = ? ORDER BY id DESC LIMIT ?`,
		identity, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "querying draw history", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "scanning history row", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterating history rows", err)
	}
	return ids, nil
}

// RecordDraw writes one history row per served place, sharing a session id
// and the draw rationale, in a single transaction.
func (d *HistoryDAO) RecordDraw(ctx context.Context, identity string, placeIDs []string, rationale string, sessionID types.ID) error {
	if len(placeIDs) == 0 {
		return nil
	}

	tx, err := d.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.DB_WRITE_FAILED, "beginning history transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO draw_history (identity, place_id, session_id, rationale) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return types.WrapError(types.DB_WRITE_FAILED, "preparing history insert", err)
	}
	defer stmt.Close()

	for _, placeID := range placeIDs {
		if _, err := stmt.ExecContext(ctx, identity, placeID, sessionID.String(), rationale); err != nil {
			return types.WrapError(types.DB_WRITE_FAILED, "inserting history row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.DB_WRITE_FAILED, "committing history transaction", err)
	}
	return nil
}
