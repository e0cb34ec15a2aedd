package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// DayKey formats a time as the quota counter's day key. Rollover is implicit:
// a new day is a new row.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// QuotaDAO persists per-identity per-day draw counters.
type QuotaDAO struct {
	db *DB
}

// NewQuotaDAO creates a new QuotaDAO.
func NewQuotaDAO(db *DB) *QuotaDAO {
	return &QuotaDAO{db: db}
}

// DailyDrawCount returns the drawn count for an identity on a day,
// zero if no row exists yet.
func (d *QuotaDAO) DailyDrawCount(ctx context.Context, identity, day string) (int, error) {
	var count int
	err := d.db.conn.QueryRowContext(ctx,
		`SELECT drawn_count FROM quota_counters WHERE identity = ? AND day = ?`,
		identity, day).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, types.WrapError(types.DB_QUERY_FAILED, "querying quota counter", err)
	}
	return count, nil
}

// IncrementDailyDrawCount atomically adds to an identity's daily counter.
// The upsert is a single conditional statement, so two concurrent draws
// cannot both apply against a stale read.
func (d *QuotaDAO) IncrementDailyDrawCount(ctx context.Context, identity, day string, by int) error {
	if by <= 0 {
		return nil
	}
	_, err := d.db.conn.ExecContext(ctx,
		`INSERT INTO quota_counters (identity, day, drawn_count) VALUES (?, ?, ?)
		 ON CONFLICT(identity, day) DO UPDATE SET drawn_count = drawn_count + excluded.drawn_count`,
		identity, day, by)
	if err != nil {
		return types.WrapError(types.QUOTA_INCREMENT_FAILED, "incrementing quota counter", err)
	}
	return nil
}
