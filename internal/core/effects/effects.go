// Package effects defines effect types as data structures representing I/O operations.
// Effects are pure data - they describe what should happen, not how. The
// application layer's executor is the only place they are interpreted.
package effects

import (
	"github.com/example/kiln/internal/core/patch"
)

// WritePolicy decides what happens when a file effect meets an existing file.
type WritePolicy string

const (
	// RefuseIfExists leaves an existing file untouched and reports a skip.
	RefuseIfExists WritePolicy = "refuse-if-exists"
	// PatchOrCreate edits an existing file through Patch, or creates it from
	// Content when absent. Empty Content means the file must already exist.
	PatchOrCreate WritePolicy = "patch-existing-or-create"
	// AppendIfAbsent appends through Patch unless the file already carries
	// the entity's marker, creating the file from Content when absent.
	AppendIfAbsent WritePolicy = "append-if-absent"
)

// FileEffect is one generated artifact: a target path, its content and the
// policy used to reconcile it with what is on disk.
type FileEffect struct {
	Kind    string // artifact kind, e.g. "model"
	Path    string // relative to the project root
	Content string // full file content used on create
	Policy  WritePolicy
	Patch   patch.Patcher // used when the file exists, nil for RefuseIfExists
}

// ExecEffect runs an external command in the project root.
type ExecEffect struct {
	Name    string   // executable, relative to the project root or on PATH
	Args    []string // arguments
	OKCodes []int    // exit codes that count as success, default {0}
}

// Succeeded reports whether an exit code is acceptable for this command.
func (e ExecEffect) Succeeded(code int) bool {
	if len(e.OKCodes) == 0 {
		return code == 0
	}
	for _, ok := range e.OKCodes {
		if ok == code {
			return true
		}
	}
	return false
}
