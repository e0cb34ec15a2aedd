package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sort"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

//go:embed schema.sql
var initialSchema string

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending migrations.
	Migrate(ctx context.Context) error

	// CurrentVersion returns the current schema version.
	CurrentVersion(ctx context.Context) (int, error)
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      string
}

// getMigrations returns all known migrations in declaration order.
func getMigrations() []migration {
	return []migration{
		{version: 1, name: "initial_schema", up: initialSchema},
	}
}

// migrator implements the Migrator interface.
type migrator struct {
	db         *DB
	migrations []migration
}

// NewMigrator creates a new database migrator.
func NewMigrator(db *DB) Migrator {
	return &migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

// Migrate applies all pending migrations inside one transaction each.
func (m *migrator) Migrate(ctx context.Context) error {
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	pending := make([]migration, 0, len(m.migrations))
	for _, mig := range m.migrations {
		if mig.version > current {
			pending = append(pending, mig)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })

	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return types.WrapError(types.DB_MIGRATION_FAILED,
				fmt.Sprintf("applying migration %d (%s)", mig.version, mig.name), err)
		}
	}
	return nil
}

// CurrentVersion returns the highest applied migration version, 0 if none.
func (m *migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var version sql.NullInt64
	err := m.db.conn.QueryRowContext(ctx,
		"SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, types.WrapError(types.DB_QUERY_FAILED, "reading schema version", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

func (m *migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return types.WrapError(types.DB_MIGRATION_FAILED, "creating schema_migrations table", err)
	}
	return nil
}

func (m *migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.up); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		mig.version, mig.name); err != nil {
		return err
	}
	return tx.Commit()
}
