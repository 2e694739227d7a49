package app

import (
	"context"
	"fmt"

	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/ports/secondary"
	"github.com/example/kiln/internal/scaffold"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	ledger    secondary.LedgerRepository
	workspace secondary.Workspace
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(ledger secondary.LedgerRepository, workspace secondary.Workspace) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		ledger:    ledger,
		workspace: workspace,
	}
}

// ListRuns retrieves runs matching the given filters, newest first.
func (s *HistoryServiceImpl) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	entity, err := normalizeFilterEntity(filters.Entity)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.ListRuns(ctx, secondary.RunFilters{
		Entity: entity,
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = s.recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves a run with its artifacts.
func (s *HistoryServiceImpl) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	record, err := s.ledger.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	artifacts, err := s.ledger.ListArtifacts(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	run := s.recordToRun(record)
	for _, a := range artifacts {
		run.Artifacts = append(run.Artifacts, &primary.RunArtifact{
			Kind:     a.Kind,
			Path:     a.Path,
			Action:   a.Action,
			Checksum: a.Checksum,
		})
	}
	return run, nil
}

// Status compares the files an entity's runs created with what is on disk,
// using the checksum of the entity's last write to each file.
func (s *HistoryServiceImpl) Status(ctx context.Context, entity string) ([]*primary.ArtifactStatus, error) {
	name, err := scaffold.NormalizeEntityName(entity)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.LatestArtifacts(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}

	var statuses []*primary.ArtifactStatus
	for _, a := range records {
		state, err := s.drift(ctx, a)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &primary.ArtifactStatus{
			RunID: a.RunID,
			Kind:  a.Kind,
			Path:  a.Path,
			State: state,
		})
	}
	return statuses, nil
}

func (s *HistoryServiceImpl) drift(ctx context.Context, a *secondary.ArtifactRecord) (string, error) {
	exists, err := s.workspace.Exists(ctx, a.Path)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", a.Path, err)
	}
	if !exists {
		return primary.DriftMissing, nil
	}

	content, err := s.workspace.ReadFile(ctx, a.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", a.Path, err)
	}
	if Checksum(content) != a.Checksum {
		return primary.DriftModified, nil
	}
	return primary.DriftUnchanged, nil
}

func (s *HistoryServiceImpl) recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:        r.ID,
		Entity:    r.Entity,
		Fields:    r.Fields,
		Relations: r.Relations,
		Flags:     r.Flags,
		Actor:     r.Actor,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func normalizeFilterEntity(entity string) (string, error) {
	if entity == "" {
		return "", nil
	}
	return scaffold.NormalizeEntityName(entity)
}

var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
