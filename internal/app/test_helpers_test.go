package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/example/kiln/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.Workspace        = (*mockWorkspace)(nil)
	_ secondary.CommandRunner    = (*mockRunner)(nil)
	_ secondary.LedgerRepository = (*mockLedger)(nil)
)

// mockWorkspace implements secondary.Workspace over an in-memory file map.
type mockWorkspace struct {
	files    map[string]string
	writes   []string // paths written, in order
	writeErr error
}

func newMockWorkspace() *mockWorkspace {
	return &mockWorkspace{files: make(map[string]string)}
}

func (m *mockWorkspace) Root() string {
	return "/project"
}

func (m *mockWorkspace) Exists(ctx context.Context, p string) (bool, error) {
	_, ok := m.files[p]
	return ok, nil
}

func (m *mockWorkspace) ReadFile(ctx context.Context, p string) (string, error) {
	content, ok := m.files[p]
	if !ok {
		return "", fmt.Errorf("%s: no such file", p)
	}
	return content, nil
}

func (m *mockWorkspace) WriteFile(ctx context.Context, p, content string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[p] = content
	m.writes = append(m.writes, p)
	return nil
}

func (m *mockWorkspace) Glob(ctx context.Context, pattern string) ([]string, error) {
	var matches []string
	for p := range m.files {
		if ok, _ := path.Match(pattern, p); ok {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// mockRunner implements secondary.CommandRunner, recording every call.
type mockRunner struct {
	calls []string
	codes map[string]int // exit code per command name
	err   error
}

func newMockRunner() *mockRunner {
	return &mockRunner{codes: make(map[string]int)}
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) (int, string, error) {
	m.calls = append(m.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if m.err != nil {
		return -1, "", m.err
	}
	code := m.codes[name]
	if code != 0 {
		return code, "formatter output", nil
	}
	return 0, "", nil
}

// mockLedger implements secondary.LedgerRepository for testing.
type mockLedger struct {
	runs      map[string]*secondary.RunRecord
	order     []string
	artifacts []*secondary.ArtifactRecord
	createErr error
	nextID    int
}

func newMockLedger() *mockLedger {
	return &mockLedger{runs: make(map[string]*secondary.RunRecord)}
}

func (m *mockLedger) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if run.CreatedAt == "" {
		run.CreatedAt = "2024-01-15T09:30:00Z"
	}
	m.runs[run.ID] = run
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockLedger) GetRun(ctx context.Context, id string) (*secondary.RunRecord, error) {
	if run, ok := m.runs[id]; ok {
		return run, nil
	}
	return nil, errors.New("run not found")
}

func (m *mockLedger) ListRuns(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	var result []*secondary.RunRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		run := m.runs[m.order[i]]
		if filters.Entity != "" && run.Entity != filters.Entity {
			continue
		}
		if filters.Status != "" && run.Status != filters.Status {
			continue
		}
		result = append(result, run)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockLedger) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("RUN-%03d", m.nextID), nil
}

func (m *mockLedger) AddArtifact(ctx context.Context, artifact *secondary.ArtifactRecord) error {
	m.artifacts = append(m.artifacts, artifact)
	return nil
}

func (m *mockLedger) ListArtifacts(ctx context.Context, runID string) ([]*secondary.ArtifactRecord, error) {
	var result []*secondary.ArtifactRecord
	for _, a := range m.artifacts {
		if a.RunID == runID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockLedger) LatestArtifacts(ctx context.Context, entity string) ([]*secondary.ArtifactRecord, error) {
	created := make(map[string]bool)
	for _, a := range m.artifacts {
		if run := m.runs[a.RunID]; run != nil && run.Entity == entity && a.Action == "created" {
			created[a.Path] = true
		}
	}

	latest := make(map[string]*secondary.ArtifactRecord)
	var paths []string
	for _, a := range m.artifacts {
		run := m.runs[a.RunID]
		if run == nil || run.Entity != entity || !created[a.Path] {
			continue
		}
		if _, ok := latest[a.Path]; !ok {
			paths = append(paths, a.Path)
		}
		latest[a.Path] = a
	}
	sort.Strings(paths)
	result := make([]*secondary.ArtifactRecord, len(paths))
	for i, p := range paths {
		result[i] = latest[p]
	}
	return result, nil
}
