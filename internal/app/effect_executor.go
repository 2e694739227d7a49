// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/example/kiln/internal/core/effects"
	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/ports/secondary"
)

// ErrTargetMissing is returned when an artifact can only be patched and its
// target file does not exist.
var ErrTargetMissing = errors.New("target file not found")

// WriteResult is the outcome of reconciling one file effect with the disk.
type WriteResult struct {
	Outcome  string // primary.OutcomeWritten, OutcomeSkipped or OutcomeError
	Action   string // primary.ActionCreated, ActionPatched or ActionAppended when written
	Checksum string // sha256 of the content written
	Message  string // reason for a skip
	Err      error
}

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	// Write reconciles a file effect with the project under its policy.
	Write(ctx context.Context, eff effects.FileEffect) WriteResult

	// Preview reports what Write would do without touching the project.
	Preview(ctx context.Context, eff effects.FileEffect) WriteResult

	// Exec runs an external command in the project root.
	Exec(ctx context.Context, eff effects.ExecEffect) error
}

// DefaultEffectExecutor implements EffectExecutor over a workspace and a
// command runner.
type DefaultEffectExecutor struct {
	workspace secondary.Workspace
	runner    secondary.CommandRunner
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(workspace secondary.Workspace, runner secondary.CommandRunner) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		workspace: workspace,
		runner:    runner,
	}
}

// Write reconciles a file effect with the project under its policy.
func (e *DefaultEffectExecutor) Write(ctx context.Context, eff effects.FileEffect) WriteResult {
	return e.reconcile(ctx, eff, true)
}

// Preview reports what Write would do without touching the project.
func (e *DefaultEffectExecutor) Preview(ctx context.Context, eff effects.FileEffect) WriteResult {
	return e.reconcile(ctx, eff, false)
}

func (e *DefaultEffectExecutor) reconcile(ctx context.Context, eff effects.FileEffect, commit bool) WriteResult {
	exists, err := e.workspace.Exists(ctx, eff.Path)
	if err != nil {
		return failed(fmt.Errorf("failed to check %s: %w", eff.Path, err))
	}

	if !exists {
		if eff.Content == "" {
			return failed(fmt.Errorf("%w: %s", ErrTargetMissing, eff.Path))
		}
		if commit {
			if err := e.workspace.WriteFile(ctx, eff.Path, eff.Content); err != nil {
				return failed(fmt.Errorf("failed to write %s: %w", eff.Path, err))
			}
		}
		return WriteResult{Outcome: primary.OutcomeWritten, Action: primary.ActionCreated, Checksum: Checksum(eff.Content)}
	}

	if eff.Policy == effects.RefuseIfExists || eff.Patch == nil {
		return WriteResult{Outcome: primary.OutcomeSkipped, Message: "already exists"}
	}

	src, err := e.workspace.ReadFile(ctx, eff.Path)
	if err != nil {
		return failed(fmt.Errorf("failed to read %s: %w", eff.Path, err))
	}
	out, err := eff.Patch.Apply(src)
	if err != nil {
		return failed(fmt.Errorf("failed to patch %s: %w", eff.Path, err))
	}
	if out == src {
		return WriteResult{Outcome: primary.OutcomeSkipped, Message: "already present"}
	}
	if commit {
		if err := e.workspace.WriteFile(ctx, eff.Path, out); err != nil {
			return failed(fmt.Errorf("failed to write %s: %w", eff.Path, err))
		}
	}

	action := primary.ActionPatched
	if eff.Policy == effects.AppendIfAbsent {
		action = primary.ActionAppended
	}
	return WriteResult{Outcome: primary.OutcomeWritten, Action: action, Checksum: Checksum(out)}
}

// Exec runs an external command in the project root.
func (e *DefaultEffectExecutor) Exec(ctx context.Context, eff effects.ExecEffect) error {
	code, output, err := e.runner.Run(ctx, e.workspace.Root(), eff.Name, eff.Args...)
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", eff.Name, err)
	}
	if !eff.Succeeded(code) {
		return fmt.Errorf("%s exited with code %d: %s", eff.Name, code, strings.TrimSpace(output))
	}
	return nil
}

func failed(err error) WriteResult {
	return WriteResult{Outcome: primary.OutcomeError, Err: err}
}

// Checksum returns the hex sha256 of content.
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
