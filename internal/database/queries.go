package database

// Statements used by the migrator. Keeping them here keeps migrator.go about control flow.
const (
	createMigrationsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`

	countMigration = `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`

	insertMigration = `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, NOW())`
)
