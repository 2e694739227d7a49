package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/kiln/internal/core/effects"
	"github.com/example/kiln/internal/core/patch"
	"github.com/example/kiln/internal/ports/primary"
)

func TestEffectExecutor_Write(t *testing.T) {
	routes := patch.AppendBlock{Markers: []string{"// Routes for Invoice"}, Block: "// Routes for Invoice\nrequire __DIR__ . '/api/invoices.php';\n"}
	migration := patch.MigrationColumns{
		Anchor:  "$table->id();",
		Columns: []patch.MigrationColumn{{Name: "name", Line: "$table->string('name');"}},
	}

	tests := []struct {
		name        string
		existing    map[string]string
		eff         effects.FileEffect
		wantOutcome string
		wantAction  string
		wantContent string
		wantErr     error
	}{
		{
			name:        "creates missing file",
			eff:         effects.FileEffect{Path: "app/Models/Invoice.php", Content: "<?php\n", Policy: effects.RefuseIfExists},
			wantOutcome: primary.OutcomeWritten,
			wantAction:  primary.ActionCreated,
			wantContent: "<?php\n",
		},
		{
			name:        "refuses existing file",
			existing:    map[string]string{"app/Models/Invoice.php": "hand edited"},
			eff:         effects.FileEffect{Path: "app/Models/Invoice.php", Content: "<?php\n", Policy: effects.RefuseIfExists},
			wantOutcome: primary.OutcomeSkipped,
			wantContent: "hand edited",
		},
		{
			name:        "appends to shared file",
			existing:    map[string]string{"routes/api.php": "<?php\n"},
			eff:         effects.FileEffect{Path: "routes/api.php", Content: "unused", Policy: effects.AppendIfAbsent, Patch: routes},
			wantOutcome: primary.OutcomeWritten,
			wantAction:  primary.ActionAppended,
			wantContent: "<?php\n\n// Routes for Invoice\nrequire __DIR__ . '/api/invoices.php';\n",
		},
		{
			name:        "marker already present",
			existing:    map[string]string{"routes/api.php": "<?php\n// Routes for Invoice\n"},
			eff:         effects.FileEffect{Path: "routes/api.php", Policy: effects.AppendIfAbsent, Patch: routes},
			wantOutcome: primary.OutcomeSkipped,
			wantContent: "<?php\n// Routes for Invoice\n",
		},
		{
			name:        "patches existing file",
			existing:    map[string]string{"m.php": "    $table->id();\n"},
			eff:         effects.FileEffect{Path: "m.php", Policy: effects.PatchOrCreate, Patch: migration},
			wantOutcome: primary.OutcomeWritten,
			wantAction:  primary.ActionPatched,
			wantContent: "    $table->id();\n    $table->string('name');\n",
		},
		{
			name:        "missing anchor",
			existing:    map[string]string{"m.php": "<?php\n"},
			eff:         effects.FileEffect{Path: "m.php", Policy: effects.PatchOrCreate, Patch: migration},
			wantOutcome: primary.OutcomeError,
			wantContent: "<?php\n",
			wantErr:     patch.ErrAnchorNotFound,
		},
		{
			name:        "patch target required",
			eff:         effects.FileEffect{Path: "m.php", Policy: effects.PatchOrCreate, Patch: migration},
			wantOutcome: primary.OutcomeError,
			wantErr:     ErrTargetMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newMockWorkspace()
			for p, c := range tt.existing {
				ws.files[p] = c
			}
			executor := NewEffectExecutor(ws, newMockRunner())

			res := executor.Write(context.Background(), tt.eff)

			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q (err: %v)", res.Outcome, tt.wantOutcome, res.Err)
			}
			if res.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", res.Action, tt.wantAction)
			}
			if tt.wantErr != nil && !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if got := ws.files[tt.eff.Path]; got != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}
			if res.Outcome == primary.OutcomeWritten && res.Checksum != Checksum(tt.wantContent) {
				t.Error("expected checksum of the written content")
			}
		})
	}
}

func TestEffectExecutor_Preview(t *testing.T) {
	ws := newMockWorkspace()
	ws.files["routes/api.php"] = "<?php\n"
	executor := NewEffectExecutor(ws, newMockRunner())

	res := executor.Preview(context.Background(), effects.FileEffect{Path: "app/Models/Invoice.php", Content: "<?php\n"})
	if res.Outcome != primary.OutcomeWritten || res.Action != primary.ActionCreated {
		t.Errorf("unexpected preview result %+v", res)
	}

	res = executor.Preview(context.Background(), effects.FileEffect{
		Path:   "routes/api.php",
		Policy: effects.AppendIfAbsent,
		Patch:  patch.AppendBlock{Markers: []string{"x"}, Block: "x\n"},
	})
	if res.Action != primary.ActionAppended {
		t.Errorf("expected appended preview, got %+v", res)
	}

	if len(ws.writes) != 0 {
		t.Errorf("preview wrote files: %v", ws.writes)
	}
	if ws.files["routes/api.php"] != "<?php\n" {
		t.Error("preview modified an existing file")
	}
}

func TestEffectExecutor_WriteError(t *testing.T) {
	ws := newMockWorkspace()
	ws.writeErr = errors.New("disk full")
	executor := NewEffectExecutor(ws, newMockRunner())

	res := executor.Write(context.Background(), effects.FileEffect{Path: "a.php", Content: "x"})
	if res.Outcome != primary.OutcomeError || res.Err == nil {
		t.Errorf("expected error result, got %+v", res)
	}
}

func TestEffectExecutor_Exec(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		runErr  error
		okCodes []int
		wantErr bool
	}{
		{"success", 0, nil, nil, false},
		{"non-zero exit", 2, nil, nil, true},
		{"accepted exit code", 1, nil, []int{0, 1}, false},
		{"rejected exit code", 2, nil, []int{0, 1}, true},
		{"command not found", 0, errors.New("executable file not found"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newMockRunner()
			runner.codes["vendor/bin/phpcbf"] = tt.code
			runner.err = tt.runErr
			executor := NewEffectExecutor(newMockWorkspace(), runner)

			err := executor.Exec(context.Background(), effects.ExecEffect{
				Name:    "vendor/bin/phpcbf",
				Args:    []string{"routes/api.php"},
				OKCodes: tt.okCodes,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Exec() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(runner.calls) != 1 || runner.calls[0] != "vendor/bin/phpcbf routes/api.php" {
				t.Errorf("unexpected calls %v", runner.calls)
			}
		})
	}
}
