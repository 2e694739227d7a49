package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/kiln/internal/core/effects"
	"github.com/example/kiln/internal/ctxutil"
	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/ports/secondary"
	"github.com/example/kiln/internal/scaffold"
)

// ErrRepositoryConflict is returned when a run is aborted because part of the
// repository layer already exists.
var ErrRepositoryConflict = errors.New("repository layer already exists")

// ErrStrictSpec is returned in strict mode when a field or relation spec has
// entries that would otherwise be dropped or degraded.
var ErrStrictSpec = errors.New("spec rejected in strict mode")

// ConflictError lists the existing files that aborted a run.
type ConflictError struct {
	Entity string
	Paths  []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrRepositoryConflict, e.Entity, strings.Join(e.Paths, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrRepositoryConflict
}

// migrationTimestamp is the filename prefix of created migrations.
const migrationTimestamp = "2006_01_02_150405"

// FormatterOptions configures the post-pass formatters.
type FormatterOptions struct {
	Enabled        bool
	Command        string // formats every written file
	Args           []string
	RouteFixer     string // fixes the aggregate route file, exit code 1 means fixed
	RouteFixerArgs []string
	Timeout        time.Duration
}

// ScaffoldOptions carries project-level settings for generation.
type ScaffoldOptions struct {
	Layout                 scaffold.Layout
	InlineRoutes           bool
	CreateMissingMigration bool
	Strict                 bool
	Formatter              FormatterOptions
}

// ScaffoldServiceImpl implements the ScaffoldService interface.
type ScaffoldServiceImpl struct {
	generator *scaffold.Generator
	executor  EffectExecutor
	workspace secondary.Workspace
	ledger    secondary.LedgerRepository // nil when the ledger is disabled
	opts      ScaffoldOptions
	now       func() time.Time
}

// NewScaffoldService creates a new ScaffoldService with injected dependencies.
func NewScaffoldService(
	generator *scaffold.Generator,
	executor EffectExecutor,
	workspace secondary.Workspace,
	ledger secondary.LedgerRepository,
	opts ScaffoldOptions,
) *ScaffoldServiceImpl {
	return &ScaffoldServiceImpl{
		generator: generator,
		executor:  executor,
		workspace: workspace,
		ledger:    ledger,
		opts:      opts,
		now:       time.Now,
	}
}

// Scaffold generates every artifact of an entity and writes it into the project.
func (s *ScaffoldServiceImpl) Scaffold(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
	fields, fieldWarnings := scaffold.ParseFieldsStrict(req.Fields)
	relations, relationWarnings := scaffold.ParseRelationsStrict(req.Relations)
	warnings := append(fieldWarnings, relationWarnings...)

	if (req.Strict || s.opts.Strict) && len(warnings) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStrictSpec, strings.Join(warnings, "; "))
	}
	if len(fields) == 0 {
		warnings = append(warnings, "no valid fields in spec, using default fields")
	}

	entity, err := scaffold.NewEntityDescriptor(req.Entity, fields, relations, scaffold.FeatureFlags{
		SkipMigration: req.SkipMigration,
		APIResource:   req.APIResource,
		WithTests:     req.WithTests,
		WithFactory:   req.WithFactory,
		WithSeeder:    req.WithSeeder,
	})
	if err != nil {
		return nil, err
	}

	planOpts := scaffold.PlanOptions{
		Layout:                 s.opts.Layout,
		CreateMissingMigration: s.opts.CreateMissingMigration,
		Timestamp:              s.now().Format(migrationTimestamp),
		InlineRoutes:           s.opts.InlineRoutes,
	}
	if !entity.Flags.SkipMigration {
		existing, err := s.findMigration(ctx, entity)
		if err != nil {
			return nil, err
		}
		planOpts.ExistingMigration = existing
	}

	plan, err := s.generator.Plan(entity, planOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to plan %s: %w", entity.Name, err)
	}

	report := &primary.ScaffoldReport{
		Entity:   entity.Name,
		DryRun:   req.DryRun,
		Warnings: warnings,
	}

	var abortErr error
	for _, step := range plan.Steps {
		if step.Mode != scaffold.Independent {
			conflicts, err := s.existing(ctx, step)
			if err != nil {
				return report, err
			}
			if len(conflicts) > 0 {
				report.Steps = append(report.Steps, skippedStep(step, conflicts))
				if step.Mode == scaffold.AbortRunOnConflict {
					report.Aborted = true
					report.Conflicts = conflicts
					abortErr = &ConflictError{Entity: entity.Name, Paths: conflicts}
					break
				}
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("skipped %s: %s already exists", step.Name, strings.Join(conflicts, ", ")))
				continue
			}
		}

		sr := primary.StepReport{Name: step.Name}
		for _, eff := range step.Artifacts {
			var res WriteResult
			if req.DryRun {
				res = s.executor.Preview(ctx, eff)
			} else {
				res = s.executor.Write(ctx, eff)
			}
			sr.Artifacts = append(sr.Artifacts, artifactReport(eff, res))
		}
		report.Steps = append(report.Steps, sr)
	}

	if !req.DryRun && !req.NoFormat && !report.Aborted {
		s.format(ctx, report)
	}

	if !req.DryRun {
		if err := s.record(ctx, entity, report); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("run not recorded: %v", err))
		}
	}

	return report, abortErr
}

// findMigration returns the newest create migration of the entity, or "".
func (s *ScaffoldServiceImpl) findMigration(ctx context.Context, e *scaffold.EntityDescriptor) (string, error) {
	matches, err := s.workspace.Glob(ctx, s.opts.Layout.MigrationGlob(e))
	if err != nil {
		return "", fmt.Errorf("failed to look up migration: %w", err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// existing returns the artifacts of a step that are already on disk.
func (s *ScaffoldServiceImpl) existing(ctx context.Context, step scaffold.Step) ([]string, error) {
	var paths []string
	for _, eff := range step.Artifacts {
		ok, err := s.workspace.Exists(ctx, eff.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", eff.Path, err)
		}
		if ok {
			paths = append(paths, eff.Path)
		}
	}
	return paths, nil
}

func skippedStep(step scaffold.Step, conflicts []string) primary.StepReport {
	exists := make(map[string]bool, len(conflicts))
	for _, p := range conflicts {
		exists[p] = true
	}

	sr := primary.StepReport{Name: step.Name, Skipped: true}
	for _, eff := range step.Artifacts {
		msg := "not written, step has conflicts"
		if exists[eff.Path] {
			msg = "already exists"
		}
		sr.Artifacts = append(sr.Artifacts, primary.ArtifactReport{
			Kind:    eff.Kind,
			Path:    eff.Path,
			Outcome: primary.OutcomeSkipped,
			Message: msg,
		})
	}
	return sr
}

func artifactReport(eff effects.FileEffect, res WriteResult) primary.ArtifactReport {
	ar := primary.ArtifactReport{
		Kind:    eff.Kind,
		Path:    eff.Path,
		Outcome: res.Outcome,
		Action:  res.Action,
		Message: res.Message,
	}
	if res.Err != nil {
		ar.Message = res.Err.Error()
	}
	return ar
}

// format runs the configured formatters over the written files. Formatter
// problems are reported as warnings and never fail the run.
func (s *ScaffoldServiceImpl) format(ctx context.Context, report *primary.ScaffoldReport) {
	f := s.opts.Formatter
	if !f.Enabled {
		return
	}

	var paths []string
	routesTouched := false
	for _, a := range report.Written() {
		paths = append(paths, a.Path)
		if a.Path == s.opts.Layout.AggregateRoutes {
			routesTouched = true
		}
	}
	if len(paths) == 0 {
		return
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	if f.Command != "" && s.installed(ctx, f.Command) {
		args := append(append([]string{}, f.Args...), paths...)
		if err := s.executor.Exec(ctx, effects.ExecEffect{Name: f.Command, Args: args}); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("formatter failed: %v", err))
		} else {
			report.Formatted = true
		}
	}

	if f.RouteFixer != "" && routesTouched && s.installed(ctx, f.RouteFixer) {
		args := append(append([]string{}, f.RouteFixerArgs...), s.opts.Layout.AggregateRoutes)
		eff := effects.ExecEffect{Name: f.RouteFixer, Args: args, OKCodes: []int{0, 1}}
		if err := s.executor.Exec(ctx, eff); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("route fixer failed: %v", err))
		}
	}
}

// installed reports whether a project-local tool exists. Bare command names
// are resolved by the runner.
func (s *ScaffoldServiceImpl) installed(ctx context.Context, command string) bool {
	if !strings.Contains(command, "/") {
		return true
	}
	ok, err := s.workspace.Exists(ctx, command)
	return err == nil && ok
}

// record writes the run and its artifacts to the ledger.
func (s *ScaffoldServiceImpl) record(ctx context.Context, e *scaffold.EntityDescriptor, report *primary.ScaffoldReport) error {
	if s.ledger == nil {
		return nil
	}

	id, err := s.ledger.GetNextID(ctx)
	if err != nil {
		return err
	}

	run := &secondary.RunRecord{
		ID:        id,
		Entity:    e.Name,
		Fields:    scaffold.FormatFields(e.Fields),
		Relations: scaffold.FormatRelations(e.Relations),
		Flags:     formatFlags(e.Flags),
		Actor:     ctxutil.ActorFromContext(ctx),
		Status:    report.Status(),
	}
	if err := s.ledger.CreateRun(ctx, run); err != nil {
		return err
	}

	// Checksums are taken after formatting so status compares against what
	// was left on disk.
	for _, a := range report.Written() {
		content, err := s.workspace.ReadFile(ctx, a.Path)
		if err != nil {
			return err
		}
		if err := s.ledger.AddArtifact(ctx, &secondary.ArtifactRecord{
			RunID:    id,
			Kind:     a.Kind,
			Path:     a.Path,
			Action:   a.Action,
			Checksum: Checksum(content),
		}); err != nil {
			return err
		}
	}

	report.RunID = id
	return nil
}

func formatFlags(f scaffold.FeatureFlags) string {
	var flags []string
	if f.SkipMigration {
		flags = append(flags, "no-migration")
	}
	if f.APIResource {
		flags = append(flags, "api-resource")
	}
	if f.WithTests {
		flags = append(flags, "with-tests")
	}
	if f.WithFactory {
		flags = append(flags, "with-factory")
	}
	if f.WithSeeder {
		flags = append(flags, "with-seeder")
	}
	return strings.Join(flags, ",")
}

var _ primary.ScaffoldService = (*ScaffoldServiceImpl)(nil)
