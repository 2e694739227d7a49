package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_scaffold_runs_and_run_artifacts",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_actor_to_scaffold_runs",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_entity_and_path_indexes",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion returns the newest migration version.
func CurrentVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS scaffold_runs (
			id TEXT PRIMARY KEY,
			entity TEXT NOT NULL,
			fields TEXT NOT NULL DEFAULT '',
			relations TEXT NOT NULL DEFAULT '',
			flags TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('succeeded', 'failed', 'aborted')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create scaffold_runs: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS run_artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('created', 'patched', 'appended')),
			checksum TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES scaffold_runs(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_artifacts: %w", err)
	}
	return nil
}

func migrationV2(tx *sql.Tx) error {
	if _, err := tx.Exec("ALTER TABLE scaffold_runs ADD COLUMN actor TEXT"); err != nil {
		return fmt.Errorf("failed to add actor column: %w", err)
	}
	return nil
}

func migrationV3(tx *sql.Tx) error {
	if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_scaffold_runs_entity ON scaffold_runs(entity)"); err != nil {
		return fmt.Errorf("failed to create entity index: %w", err)
	}
	if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_run_artifacts_path ON run_artifacts(path)"); err != nil {
		return fmt.Errorf("failed to create path index: %w", err)
	}
	return nil
}
