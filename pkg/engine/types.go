package engine

import (
	"time"
)

// State names one phase of a synchronization run. Every invocation moves
// through the states in order; Failed is terminal and reachable from any
// phase.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateValidating  State = "validating"
	StateStaging     State = "staging"
	StateCommitting  State = "committing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Options selects the mode of one operation.
type Options struct {
	// Cascade discovers manifests recursively across the whole tree instead
	// of using the fixed set in the root directory.
	Cascade bool
	// DryRun stops after Staging and reports the exact per-file changes
	// without touching disk.
	DryRun bool
}

// StagedChange is one fully computed file rewrite, held in memory before any
// disk write. The set of staged changes for a run is the transaction unit:
// either every one is written or the tree is left exactly as found. Original
// is the content captured at staging time; it drives both the
// concurrent-modification check and rollback.
type StagedChange struct {
	Path       string
	RelPath    string
	Format     string
	Original   []byte
	Updated    []byte
	OldVersion string
	NewVersion string
}

// Outcome reports a completed (or staged, for dry runs) operation.
type Outcome struct {
	Operation  string
	Root       string
	OldVersion string
	NewVersion string
	// Changes lists every file that was written, or would be written for a
	// dry run. Files already at the target version are absent.
	Changes []StagedChange
	// TagName is the tag template expanded against the final version. The
	// engine never creates the tag; that is the caller's collaborator.
	TagName  string
	DryRun   bool
	States   []State
	Duration time.Duration
}

// Report is the read-only result of a verify operation.
type Report struct {
	Root          string
	RecordPath    string
	RecordVersion string
	Files         []FileStatus
	InSync        bool
	States        []State
	Duration      time.Duration
}

// FileStatus is one manifest's standing against the root record.
type FileStatus struct {
	Path    string
	RelPath string
	Format  string
	Version string
	InSync  bool
	// Error carries the read failure for files whose version could not be
	// extracted; such files always count as out of sync.
	Error string
}

// Mismatches returns the files that disagree with the root record.
func (r *Report) Mismatches() []FileStatus {
	var out []FileStatus
	for _, f := range r.Files {
		if !f.InSync {
			out = append(out, f)
		}
	}
	return out
}
