// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/kiln/internal/ports/secondary"
)

// WorkspaceAdapter implements secondary.Workspace over a project directory.
type WorkspaceAdapter struct {
	root string
}

// NewWorkspaceAdapter creates a new filesystem workspace rooted at root.
// If root is empty, the current directory is used.
func NewWorkspaceAdapter(root string) (*WorkspaceAdapter, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	return &WorkspaceAdapter{root: abs}, nil
}

// Root returns the absolute path of the project root.
func (a *WorkspaceAdapter) Root() string {
	return a.root
}

// Exists reports whether a file exists at path.
func (a *WorkspaceAdapter) Exists(ctx context.Context, path string) (bool, error) {
	full, err := a.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return true, nil
}

// ReadFile returns the content of the file at path.
func (a *WorkspaceAdapter) ReadFile(ctx context.Context, path string) (string, error) {
	full, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteFile writes content to path, creating parent directories.
func (a *WorkspaceAdapter) WriteFile(ctx context.Context, path, content string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Glob returns the project paths matching pattern, sorted.
func (a *WorkspaceAdapter) Glob(ctx context.Context, pattern string) ([]string, error) {
	full, err := a.resolve(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(a.root, m)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", m, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)
	return paths, nil
}

// resolve maps a slash-separated project path to an absolute path, refusing
// paths that leave the project.
func (a *WorkspaceAdapter) resolve(path string) (string, error) {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("path %s must be relative to the project root", path)
	}
	full := filepath.Join(a.root, filepath.FromSlash(path))
	if full != a.root && !strings.HasPrefix(full, a.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s leaves the project root", path)
	}
	return full, nil
}

// Ensure WorkspaceAdapter implements the interface
var _ secondary.Workspace = (*WorkspaceAdapter)(nil)
