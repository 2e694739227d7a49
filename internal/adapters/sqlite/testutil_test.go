// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the ledger schema is loaded for tests.
// setupTestDB uses db.GetSchemaSQL() so tests run against the authoritative
// schema. Do not declare CREATE TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/kiln/internal/adapters/sqlite"
	"github.com/example/kiln/internal/db"
	"github.com/example/kiln/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRun creates a run through the repository and returns its ID.
func seedRun(t *testing.T, repo *sqlite.LedgerRepository, entity, status string) string {
	t.Helper()
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	err = repo.CreateRun(ctx, &secondary.RunRecord{
		ID:     id,
		Entity: entity,
		Fields: "name:string",
		Status: status,
	})
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return id
}

// seedArtifact records an artifact for a run.
func seedArtifact(t *testing.T, repo *sqlite.LedgerRepository, runID, kind, path, action, checksum string) {
	t.Helper()
	err := repo.AddArtifact(context.Background(), &secondary.ArtifactRecord{
		RunID:    runID,
		Kind:     kind,
		Path:     path,
		Action:   action,
		Checksum: checksum,
	})
	if err != nil {
		t.Fatalf("failed to seed artifact: %v", err)
	}
}
