// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/example/kiln/internal/ports/secondary"
)

var runColumns = []string{"id", "entity", "fields", "relations", "flags", "actor", "status", "created_at"}

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// CreateRun persists a new run.
func (r *LedgerRepository) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	var actor sql.NullString
	if run.Actor != "" {
		actor = sql.NullString{String: run.Actor, Valid: true}
	}

	query, args, err := r.qb.Insert("scaffold_runs").
		Columns("id", "entity", "fields", "relations", "flags", "actor", "status").
		Values(run.ID, run.Entity, run.Fields, run.Relations, run.Flags, actor, run.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by its ID.
func (r *LedgerRepository) GetRun(ctx context.Context, id string) (*secondary.RunRecord, error) {
	query, args, err := r.qb.Select(runColumns...).
		From("scaffold_runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build run query: %w", err)
	}

	record, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return record, nil
}

// ListRuns retrieves runs matching the given filters, newest first.
func (r *LedgerRepository) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	q := r.qb.Select(runColumns...).From("scaffold_runs")
	if filters.Entity != "" {
		q = q.Where(squirrel.Eq{"entity": filters.Entity})
	}
	if filters.Status != "" {
		q = q.Where(squirrel.Eq{"status": filters.Status})
	}
	q = q.OrderBy("created_at DESC", "CAST(SUBSTR(id, 5) AS INTEGER) DESC")
	if filters.Limit > 0 {
		q = q.Limit(uint64(filters.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build run query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// GetNextID returns the next available run ID.
func (r *LedgerRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM scaffold_runs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next run ID: %w", err)
	}

	return fmt.Sprintf("RUN-%03d", maxID+1), nil
}

// AddArtifact records one artifact written by a run.
func (r *LedgerRepository) AddArtifact(ctx context.Context, artifact *secondary.ArtifactRecord) error {
	query, args, err := r.qb.Insert("run_artifacts").
		Columns("run_id", "kind", "path", "action", "checksum").
		Values(artifact.RunID, artifact.Kind, artifact.Path, artifact.Action, artifact.Checksum).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build artifact insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add artifact: %w", err)
	}
	return nil
}

// ListArtifacts retrieves the artifacts of a run in write order.
func (r *LedgerRepository) ListArtifacts(ctx context.Context, runID string) ([]*secondary.ArtifactRecord, error) {
	q := r.qb.Select("run_id", "kind", "path", "action", "checksum", "created_at").
		From("run_artifacts").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("id")
	return r.queryArtifacts(ctx, q)
}

// LatestArtifacts retrieves, per path the entity's runs created, the most
// recent artifact of the entity for that path. A later patch by the same
// entity supersedes the created checksum. Paths the entity only patched or
// appended to are shared files and are left out.
func (r *LedgerRepository) LatestArtifacts(ctx context.Context, entity string) ([]*secondary.ArtifactRecord, error) {
	q := r.qb.Select("a.run_id", "a.kind", "a.path", "a.action", "a.checksum", "a.created_at").
		From("run_artifacts a").
		Where(`a.id IN (
			SELECT MAX(a2.id) FROM run_artifacts a2
			JOIN scaffold_runs r2 ON r2.id = a2.run_id
			WHERE r2.entity = ? AND a2.path IN (
				SELECT a3.path FROM run_artifacts a3
				JOIN scaffold_runs r3 ON r3.id = a3.run_id
				WHERE r3.entity = ? AND a3.action = 'created'
			)
			GROUP BY a2.path
		)`, entity, entity).
		OrderBy("a.path")
	return r.queryArtifacts(ctx, q)
}

func (r *LedgerRepository) queryArtifacts(ctx context.Context, q squirrel.SelectBuilder) ([]*secondary.ArtifactRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build artifact query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*secondary.ArtifactRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.ArtifactRecord{}
		if err := rows.Scan(&record.RunID, &record.Kind, &record.Path, &record.Action, &record.Checksum, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		artifacts = append(artifacts, record)
	}

	return artifacts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		actor     sql.NullString
		createdAt time.Time
	)

	record := &secondary.RunRecord{}
	err := row.Scan(&record.ID, &record.Entity, &record.Fields, &record.Relations,
		&record.Flags, &actor, &record.Status, &createdAt)
	if err != nil {
		return nil, err
	}

	record.Actor = actor.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure LedgerRepository implements the interface
var _ secondary.LedgerRepository = (*LedgerRepository)(nil)
