package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh ledgers.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the ledger schema. Repository tests
// load it through GetSchemaSQL() instead of declaring their own tables, so a
// column referenced by repository code but missing here fails immediately
// with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run the db tests, which compare a migrated ledger against this schema
const SchemaSQL = `
-- Scaffold runs (one per kiln make invocation)
CREATE TABLE IF NOT EXISTS scaffold_runs (
	id TEXT PRIMARY KEY,
	entity TEXT NOT NULL,
	fields TEXT NOT NULL DEFAULT '',
	relations TEXT NOT NULL DEFAULT '',
	flags TEXT NOT NULL DEFAULT '',
	actor TEXT,
	status TEXT NOT NULL CHECK(status IN ('succeeded', 'failed', 'aborted')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scaffold_runs_entity ON scaffold_runs(entity);

-- Run artifacts (files written by a run)
CREATE TABLE IF NOT EXISTS run_artifacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('created', 'patched', 'appended')),
	checksum TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (run_id) REFERENCES scaffold_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_artifacts_path ON run_artifacts(path);
`

// InitSchema creates the schema on a fresh ledger, or runs pending
// migrations on an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Fresh install - create the current schema and mark every migration applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
