package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/kiln/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockScaffoldService implements primary.ScaffoldService for testing
type mockScaffoldService struct {
	scaffoldFn func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error)

	// Track calls for verification
	lastReq primary.ScaffoldRequest
}

func (m *mockScaffoldService) Scaffold(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
	m.lastReq = req
	if m.scaffoldFn != nil {
		return m.scaffoldFn(ctx, req)
	}
	return &primary.ScaffoldReport{Entity: req.Entity}, nil
}

func successReport() *primary.ScaffoldReport {
	return &primary.ScaffoldReport{
		RunID:  "RUN-001",
		Entity: "Invoice",
		Steps: []primary.StepReport{
			{Name: "model", Artifacts: []primary.ArtifactReport{
				{Kind: "model", Path: "app/Models/Invoice.php", Outcome: primary.OutcomeWritten, Action: primary.ActionCreated},
			}},
			{Name: "binding", Artifacts: []primary.ArtifactReport{
				{Kind: "binding", Path: "app/Providers/AppServiceProvider.php", Outcome: primary.OutcomeSkipped, Message: "already present"},
			}},
			{Name: "requests", Skipped: true, Artifacts: []primary.ArtifactReport{
				{Kind: "store request", Path: "app/Http/Requests/StoreInvoiceRequest.php", Outcome: primary.OutcomeSkipped, Message: "already exists"},
			}},
		},
		Warnings:  []string{"skipped requests: app/Http/Requests/StoreInvoiceRequest.php already exists"},
		Formatted: true,
	}
}

func TestScaffoldAdapter_Make_Success(t *testing.T) {
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return successReport(), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)

	req := primary.ScaffoldRequest{Entity: "Invoice", Fields: "number:string", WithTests: true}
	report, err := adapter.Make(context.Background(), req)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.RunID != "RUN-001" {
		t.Errorf("unexpected report: %+v", report)
	}
	if mock.lastReq.Fields != "number:string" || !mock.lastReq.WithTests {
		t.Errorf("request not passed through: %+v", mock.lastReq)
	}

	output := buf.String()
	for _, want := range []string{
		"Scaffolding Invoice",
		"✓ model",
		"app/Models/Invoice.php (created)",
		"app/Providers/AppServiceProvider.php (skipped: already present)",
		"⚠ skipped requests",
		"✓ Invoice scaffolded (1 file(s) written)",
		"✓ Formatted generated files",
		"✓ Recorded run RUN-001",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	// skipped steps are summarised by their warning unless verbose
	if strings.Contains(output, "StoreInvoiceRequest.php (skipped") {
		t.Errorf("expected skipped step artifacts to be hidden, got:\n%s", output)
	}
}

func TestScaffoldAdapter_Make_Verbose(t *testing.T) {
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return successReport(), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)
	adapter.SetVerbose(true)

	if _, err := adapter.Make(context.Background(), primary.ScaffoldRequest{Entity: "Invoice"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "StoreInvoiceRequest.php (skipped: already exists)") {
		t.Errorf("expected verbose output to list skipped artifacts, got:\n%s", buf.String())
	}
}

func TestScaffoldAdapter_Make_ArtifactError(t *testing.T) {
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return &primary.ScaffoldReport{
				Entity: "Invoice",
				Steps: []primary.StepReport{
					{Name: "migration", Artifacts: []primary.ArtifactReport{
						{Kind: "migration", Path: "database/migrations", Outcome: primary.OutcomeError, Message: "migration not found"},
					}},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)

	_, err := adapter.Make(context.Background(), primary.ScaffoldRequest{Entity: "Invoice"})

	if err == nil {
		t.Fatal("expected error when an artifact failed")
	}
	output := buf.String()
	if !strings.Contains(output, "✗ migration") || !strings.Contains(output, "(error: migration not found)") {
		t.Errorf("expected error line, got:\n%s", output)
	}
	if !strings.Contains(output, "Invoice finished with errors") {
		t.Errorf("expected failure summary, got:\n%s", output)
	}
}

func TestScaffoldAdapter_Make_Aborted(t *testing.T) {
	conflict := errors.New("repository layer already exists for Invoice")
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return &primary.ScaffoldReport{
				Entity:    "Invoice",
				Aborted:   true,
				Conflicts: []string{"app/Repositories/InvoiceRepository.php"},
			}, conflict
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)

	report, err := adapter.Make(context.Background(), primary.ScaffoldRequest{Entity: "Invoice"})

	if !errors.Is(err, conflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if report == nil || !report.Aborted {
		t.Errorf("expected aborted report, got %+v", report)
	}
	output := buf.String()
	if !strings.Contains(output, "✗ aborted") || !strings.Contains(output, "app/Repositories/InvoiceRepository.php") {
		t.Errorf("expected abort details, got:\n%s", output)
	}
}

func TestScaffoldAdapter_Make_DryRun(t *testing.T) {
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return &primary.ScaffoldReport{
				Entity: "Invoice",
				DryRun: true,
				Steps: []primary.StepReport{
					{Name: "routes", Artifacts: []primary.ArtifactReport{
						{Kind: "aggregate routes", Path: "routes/api.php", Outcome: primary.OutcomeWritten, Action: primary.ActionAppended},
					}},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)

	if _, err := adapter.Make(context.Background(), primary.ScaffoldRequest{Entity: "Invoice", DryRun: true}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "dry run, nothing written") {
		t.Errorf("expected dry run title, got:\n%s", output)
	}
	if !strings.Contains(output, "routes/api.php (would be appended)") {
		t.Errorf("expected dry run verb, got:\n%s", output)
	}
	if !strings.Contains(output, "1 file(s) would be written") {
		t.Errorf("expected dry run summary, got:\n%s", output)
	}
	if strings.Contains(output, "Recorded run") {
		t.Errorf("dry run should not mention a recorded run, got:\n%s", output)
	}
}

func TestScaffoldAdapter_Make_ServiceError(t *testing.T) {
	mock := &mockScaffoldService{
		scaffoldFn: func(ctx context.Context, req primary.ScaffoldRequest) (*primary.ScaffoldReport, error) {
			return nil, errors.New("invalid entity name")
		},
	}
	var buf bytes.Buffer
	adapter := NewScaffoldAdapter(mock, &buf)

	_, err := adapter.Make(context.Background(), primary.ScaffoldRequest{Entity: "9lives"})

	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to scaffold 9lives") {
		t.Errorf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}
