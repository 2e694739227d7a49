// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// LedgerRepository defines the secondary port for the generation ledger.
type LedgerRepository interface {
	// CreateRun persists a new run.
	CreateRun(ctx context.Context, run *RunRecord) error

	// GetRun retrieves a run by its ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns retrieves runs matching the given filters, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*RunRecord, error)

	// GetNextID returns the next available run ID.
	GetNextID(ctx context.Context) (string, error)

	// AddArtifact records one artifact written by a run.
	AddArtifact(ctx context.Context, artifact *ArtifactRecord) error

	// ListArtifacts retrieves the artifacts of a run in write order.
	ListArtifacts(ctx context.Context, runID string) ([]*ArtifactRecord, error)

	// LatestArtifacts retrieves, per path an entity created, the entity's
	// most recent artifact for that path.
	LatestArtifacts(ctx context.Context, entity string) ([]*ArtifactRecord, error)
}

// RunRecord represents a generation run as stored in persistence.
type RunRecord struct {
	ID        string
	Entity    string
	Fields    string // field spec in DSL form
	Relations string // relation spec in DSL form
	Flags     string // comma separated enabled feature flags
	Actor     string // empty string means null
	Status    string // succeeded, failed, aborted
	CreatedAt string
}

// RunFilters contains filter options for querying runs.
type RunFilters struct {
	Entity string
	Status string
	Limit  int
}

// ArtifactRecord represents one written artifact as stored in persistence.
type ArtifactRecord struct {
	RunID     string
	Kind      string
	Path      string
	Action    string // created, patched, appended
	Checksum  string // sha256 of the content written
	CreatedAt string
}
