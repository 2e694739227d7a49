// Package shell runs external tools for the application.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/example/kiln/internal/ports/secondary"
)

// Runner implements secondary.CommandRunner with os/exec.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes name with args in dir. A name containing a slash is resolved
// against dir, so project-local tools like vendor/bin/pint work.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (int, string, error) {
	if strings.Contains(name, "/") && !filepath.IsAbs(name) {
		name = filepath.Join(dir, filepath.FromSlash(name))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return 0, output.String(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), output.String(), nil
	}
	if ctx.Err() != nil {
		return -1, output.String(), fmt.Errorf("command interrupted: %w", ctx.Err())
	}
	return -1, output.String(), fmt.Errorf("command failed: %w", err)
}

var _ secondary.CommandRunner = (*Runner)(nil)
