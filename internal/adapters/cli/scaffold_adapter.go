package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/kiln/internal/ports/primary"
)

func okMark() string   { return color.New(color.FgGreen).Sprint("✓") }
func warnMark() string { return color.New(color.FgYellow).Sprint("⚠") }
func errMark() string  { return color.New(color.FgRed).Sprint("✗") }

// ScaffoldAdapter is a thin adapter that translates CLI operations to ScaffoldService calls.
// It depends only on the ScaffoldService interface, enabling easy testing with mocks.
type ScaffoldAdapter struct {
	service primary.ScaffoldService
	out     io.Writer
	verbose bool
}

// NewScaffoldAdapter creates a new ScaffoldAdapter with the given service.
func NewScaffoldAdapter(service primary.ScaffoldService, out io.Writer) *ScaffoldAdapter {
	return &ScaffoldAdapter{
		service: service,
		out:     out,
	}
}

// SetVerbose lists every artifact of skipped steps, not just the step.
func (a *ScaffoldAdapter) SetVerbose(verbose bool) {
	a.verbose = verbose
}

// Make runs a generation and prints its report. The returned error is
// non-nil when the run aborted or any artifact failed.
func (a *ScaffoldAdapter) Make(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
	report, err := a.service.Scaffold(ctx, req)
	if report == nil {
		if err == nil {
			err = fmt.Errorf("no report")
		}
		return nil, fmt.Errorf("failed to scaffold %s: %w", req.Entity, err)
	}

	a.printReport(report)

	if err != nil {
		return report, err
	}
	if report.Failed() {
		return report, fmt.Errorf("scaffold of %s finished with errors", report.Entity)
	}
	return report, nil
}

func (a *ScaffoldAdapter) printReport(r *primary.ScaffoldReport) {
	title := fmt.Sprintf("Scaffolding %s", r.Entity)
	if r.DryRun {
		title += " (dry run, nothing written)"
	}
	color.New(color.FgCyan, color.Bold).Fprintln(a.out, title)

	for _, step := range r.Steps {
		// the warnings and conflicts below already name skipped steps
		if step.Skipped && !a.verbose {
			continue
		}
		for _, art := range step.Artifacts {
			a.printArtifact(r.DryRun, art)
		}
	}

	if r.Aborted {
		fmt.Fprintf(a.out, "%s aborted: repository layer already exists\n", errMark())
		for _, p := range r.Conflicts {
			fmt.Fprintf(a.out, "    %s\n", p)
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", warnMark(), w)
	}

	written := len(r.Written())
	switch {
	case r.DryRun:
		fmt.Fprintf(a.out, "\n%d file(s) would be written\n", written)
	case r.Failed():
		fmt.Fprintf(a.out, "\n%s %s finished with errors (%d file(s) written)\n", errMark(), r.Entity, written)
	default:
		fmt.Fprintf(a.out, "\n%s %s scaffolded (%d file(s) written)\n", okMark(), r.Entity, written)
	}
	if r.Formatted {
		fmt.Fprintf(a.out, "%s Formatted generated files\n", okMark())
	}
	if r.RunID != "" {
		fmt.Fprintf(a.out, "%s Recorded run %s\n", okMark(), r.RunID)
	}
}

func (a *ScaffoldAdapter) printArtifact(dryRun bool, art primary.ArtifactReport) {
	switch art.Outcome {
	case primary.OutcomeWritten:
		verb := art.Action
		if dryRun {
			verb = "would be " + art.Action
		}
		fmt.Fprintf(a.out, "  %s %-20s %s (%s)\n", okMark(), art.Kind, art.Path, verb)
	case primary.OutcomeSkipped:
		fmt.Fprintf(a.out, "  %s %-20s %s (skipped: %s)\n", warnMark(), art.Kind, art.Path, art.Message)
	case primary.OutcomeError:
		fmt.Fprintf(a.out, "  %s %-20s %s (error: %s)\n", errMark(), art.Kind, art.Path, art.Message)
	}
}
