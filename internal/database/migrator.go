package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Migrator struct {
	db     *sql.DB
	files  fs.FS
	logger zerolog.Logger
}

func NewMigrator(db *sql.DB, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		files:  migrationsFS,
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

// Run applies every migration not yet recorded in schema_migrations, in name
// order, each inside its own transaction. It returns the names it applied.
func (m *Migrator) Run(ctx context.Context) ([]string, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := m.migrationNames()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var applied []string
	for _, name := range names {
		done, err := m.isMigrationApplied(ctx, name)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if done {
			m.logger.Debug().Str("migration", name).Msg("already applied, skipping")
			continue
		}

		if err := m.apply(ctx, name); err != nil {
			return applied, err
		}
		m.logger.Info().Str("migration", name).Msg("applied migration")
		applied = append(applied, name)
	}

	return applied, nil
}

func (m *Migrator) migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(m.files, "migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	migrationSQL, err := fs.ReadFile(m.files, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, string(migrationSQL)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, insertMigration, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}
	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, createMigrationsTable)
	return err
}

func (m *Migrator) isMigrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	if err := m.db.QueryRowContext(ctx, countMigration, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
