package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/kiln/internal/ports/primary"
)

// HistoryAdapter is a thin adapter that translates CLI operations to HistoryService calls.
type HistoryAdapter struct {
	service primary.HistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.HistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List lists recorded runs, newest first.
func (a *HistoryAdapter) List(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Scaffold your first entity:")
		fmt.Fprintln(a.out, "  kiln make Invoice --fields=\"number:string,total:decimal\"")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tENTITY\tSTATUS\tACTOR\tCREATED\tFLAGS")
	fmt.Fprintln(w, "--\t------\t------\t-----\t-------\t-----")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Entity,
			run.Status,
			orDash(run.Actor),
			run.CreatedAt,
			orDash(run.Flags),
		)
	}

	w.Flush()
	return runs, nil
}

// Show displays a single run and the files it wrote.
func (a *HistoryAdapter) Show(ctx context.Context, runID string) (*primary.Run, error) {
	run, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Fprintf(a.out, "\nRun: %s\n", run.ID)
	fmt.Fprintf(a.out, "Entity:    %s\n", run.Entity)
	fmt.Fprintf(a.out, "Status:    %s\n", run.Status)
	fmt.Fprintf(a.out, "Fields:    %s\n", orDash(run.Fields))
	fmt.Fprintf(a.out, "Relations: %s\n", orDash(run.Relations))
	fmt.Fprintf(a.out, "Flags:     %s\n", orDash(run.Flags))
	fmt.Fprintf(a.out, "Actor:     %s\n", orDash(run.Actor))
	fmt.Fprintf(a.out, "Created:   %s\n", run.CreatedAt)

	if len(run.Artifacts) > 0 {
		fmt.Fprintln(a.out)
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ACTION\tKIND\tPATH")
		for _, art := range run.Artifacts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", art.Action, art.Kind, art.Path)
		}
		w.Flush()
	}
	fmt.Fprintln(a.out)

	return run, nil
}

// Status reports generated files of an entity that were edited or removed.
func (a *HistoryAdapter) Status(ctx context.Context, entity string) ([]*primary.ArtifactStatus, error) {
	statuses, err := a.service.Status(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	if len(statuses) == 0 {
		fmt.Fprintf(a.out, "No generated files recorded for %s.\n", entity)
		return statuses, nil
	}

	changed := 0
	for _, s := range statuses {
		fmt.Fprintf(a.out, "%s %-9s %s (%s)\n", stateMark(s.State), s.State, s.Path, s.RunID)
		if s.State != primary.DriftUnchanged {
			changed++
		}
	}

	fmt.Fprintln(a.out)
	if changed == 0 {
		fmt.Fprintf(a.out, "%s All %d generated file(s) match the ledger\n", okMark(), len(statuses))
	} else {
		fmt.Fprintf(a.out, "%s %d of %d generated file(s) changed since generation\n", warnMark(), changed, len(statuses))
	}

	return statuses, nil
}

func stateMark(state string) string {
	switch state {
	case primary.DriftUnchanged:
		return okMark()
	case primary.DriftModified:
		return color.New(color.FgYellow).Sprint("M")
	default:
		return errMark()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
