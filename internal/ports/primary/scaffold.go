package primary

import "context"

// ScaffoldService defines the primary port for generating a CRUD module.
type ScaffoldService interface {
	// Scaffold generates every artifact of an entity and writes it into the
	// project. A non-nil report is returned whenever generation started,
	// even when err is non-nil.
	Scaffold(ctx context.Context, req ScaffoldRequest) (*ScaffoldReport, error)
}

// ScaffoldRequest contains parameters for a generation run.
type ScaffoldRequest struct {
	Entity        string
	Fields        string // field spec, "name:type[:nullable][:default=value],..."
	Relations     string // relation spec, "kind:Model,..."
	SkipMigration bool
	APIResource   bool
	WithTests     bool
	WithFactory   bool
	WithSeeder    bool
	DryRun        bool // render and reconcile without writing
	Strict        bool // reject specs with dropped or unknown entries
	NoFormat      bool // skip the formatter post-pass
}

// Artifact outcomes.
const (
	OutcomeWritten = "written"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Artifact actions, set when an artifact was written.
const (
	ActionCreated  = "created"
	ActionPatched  = "patched"
	ActionAppended = "appended"
)

// Run statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunAborted   = "aborted"
)

// ScaffoldReport describes what a run did, step by step.
type ScaffoldReport struct {
	RunID     string // empty when the run was not recorded
	Entity    string
	DryRun    bool
	Steps     []StepReport
	Warnings  []string
	Aborted   bool
	Conflicts []string // paths that caused an abort
	Formatted bool
}

// StepReport describes one step of a run.
type StepReport struct {
	Name      string
	Skipped   bool // the whole step was skipped on conflict
	Artifacts []ArtifactReport
}

// ArtifactReport describes the outcome of one artifact.
type ArtifactReport struct {
	Kind    string
	Path    string
	Outcome string
	Action  string
	Message string
}

// Failed reports whether the run should be treated as a failure.
func (r *ScaffoldReport) Failed() bool {
	if r.Aborted {
		return true
	}
	for _, s := range r.Steps {
		for _, a := range s.Artifacts {
			if a.Outcome == OutcomeError {
				return true
			}
		}
	}
	return false
}

// Status returns the run status implied by the report.
func (r *ScaffoldReport) Status() string {
	switch {
	case r.Aborted:
		return RunAborted
	case r.Failed():
		return RunFailed
	default:
		return RunSucceeded
	}
}

// Written returns the artifacts that were written, in order.
func (r *ScaffoldReport) Written() []ArtifactReport {
	var out []ArtifactReport
	for _, s := range r.Steps {
		for _, a := range s.Artifacts {
			if a.Outcome == OutcomeWritten {
				out = append(out, a)
			}
		}
	}
	return out
}
