package primary

import "context"

// HistoryService defines the primary port for reading the generation ledger.
type HistoryService interface {
	// ListRuns retrieves runs matching the given filters, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)

	// GetRun retrieves a run with its artifacts.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// Status compares the files an entity's runs created with what is on
	// disk now.
	Status(ctx context.Context, entity string) ([]*ArtifactStatus, error)
}

// RunFilters contains filter options for listing runs.
type RunFilters struct {
	Entity string
	Status string
	Limit  int
}

// Run represents a generation run at the port boundary.
type Run struct {
	ID        string
	Entity    string
	Fields    string
	Relations string
	Flags     string
	Actor     string
	Status    string
	CreatedAt string
	Artifacts []*RunArtifact // populated by GetRun only
}

// RunArtifact represents an artifact written by a run.
type RunArtifact struct {
	Kind     string
	Path     string
	Action   string
	Checksum string
}

// Drift states of a recorded artifact.
const (
	DriftUnchanged = "unchanged"
	DriftModified  = "modified"
	DriftMissing   = "missing"
)

// ArtifactStatus reports whether a created artifact was edited since.
type ArtifactStatus struct {
	RunID string
	Kind  string
	Path  string
	State string
}
