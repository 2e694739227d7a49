// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import "context"

// Workspace defines the secondary port for file operations inside the target
// project. Paths are slash separated and relative to the project root.
type Workspace interface {
	// Root returns the absolute path of the project root.
	Root() string

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadFile returns the content of the file at path.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile writes content to path, creating parent directories.
	WriteFile(ctx context.Context, path, content string) error

	// Glob returns the paths matching pattern, sorted.
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// CommandRunner defines the secondary port for running external tools.
type CommandRunner interface {
	// Run executes name with args in dir and returns its exit code and
	// combined output. err is non-nil only when the command could not run.
	Run(ctx context.Context, dir, name string, args ...string) (int, string, error)
}
