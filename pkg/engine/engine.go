// Package engine applies version changes across a repository tree as a
// single staged transaction. An operation discovers the root version record
// and every adapter-claimed manifest, validates the set, computes the full
// rewrite for each file in memory, and only then writes, re-checking each
// file against its staged original immediately before the write and rolling
// every prior write back if any write fails. The engine holds no state
// between invocations; each call re-discovers and re-validates from scratch.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fulmenhq/semcast/pkg/discovery"
	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/logger"
	"github.com/fulmenhq/semcast/pkg/manifest"
	"github.com/fulmenhq/semcast/pkg/safeio"
	"github.com/fulmenhq/semcast/pkg/semver"
)

// writeFunc writes a file in place. Swappable in tests to inject write and
// restore failures.
type writeFunc func(path string, data []byte) error

// Engine runs version operations rooted at a single directory.
type Engine struct {
	root        string
	registry    *manifest.Registry
	ignores     []string
	tagTemplate string
	repoName    string
	readLimit   int

	commitWrite  writeFunc
	restoreWrite writeFunc
}

// Config carries the knobs an Engine is built from. Zero values fall back to
// sensible defaults: the full adapter registry, the v{version} tag template,
// and the root directory's base name.
type Config struct {
	Registry     *manifest.Registry
	ExtraIgnores []string
	TagTemplate  string
	RepoName     string
}

// New builds an engine for the tree rooted at root. The root should already
// be cleaned and absolute; callers resolve user input before constructing.
func New(root string, cfg Config) *Engine {
	reg := cfg.Registry
	if reg == nil {
		reg = manifest.NewRegistry()
	}
	tmpl := cfg.TagTemplate
	if tmpl == "" {
		tmpl = DefaultTagTemplate
	}
	repo := cfg.RepoName
	if repo == "" {
		repo = filepath.Base(root)
	}
	return &Engine{
		root:         root,
		registry:     reg,
		ignores:      cfg.ExtraIgnores,
		tagTemplate:  tmpl,
		repoName:     repo,
		readLimit:    runtime.NumCPU(),
		commitWrite:  safeio.WriteFilePreservePerms,
		restoreWrite: safeio.WriteFilePreservePerms,
	}
}

// Root returns the directory the engine operates on.
func (e *Engine) Root() string { return e.root }

// Bump increments one component of the root record's version and propagates
// the result to every discovered manifest. The tree must already be in sync:
// any manifest that disagrees with the record blocks the bump before a single
// byte is staged.
func (e *Engine) Bump(ctx context.Context, kind semver.Kind, opts Options) (*Outcome, error) {
	r := e.begin("bump")
	set, err := e.gather(ctx, r, opts)
	if err != nil {
		return nil, r.fail(err)
	}
	current, err := parseRecordVersion(set)
	if err != nil {
		return nil, r.fail(err)
	}
	if err := parseManifestVersions(set); err != nil {
		return nil, r.fail(err)
	}
	if err := requireInSync(set, current); err != nil {
		return nil, r.fail(err)
	}
	next := current.Bump(kind)
	return e.apply(ctx, r, set, next, opts)
}

// Sync forces every discovered manifest to the root record's current version.
// Unlike Bump it has no in-sync precondition: repairing divergence is its
// job, and a manifest whose declared version does not even parse is simply
// rewritten.
func (e *Engine) Sync(ctx context.Context, opts Options) (*Outcome, error) {
	r := e.begin("sync")
	set, err := e.gather(ctx, r, opts)
	if err != nil {
		return nil, r.fail(err)
	}
	target, err := parseRecordVersion(set)
	if err != nil {
		return nil, r.fail(err)
	}
	return e.apply(ctx, r, set, target, opts)
}

// Reset rewrites the root record and every discovered manifest to an explicit
// version, regardless of what any of them currently declare. The record's
// current content does not need to parse; reset is the recovery path for a
// corrupted record.
func (e *Engine) Reset(ctx context.Context, target semver.Version, opts Options) (*Outcome, error) {
	r := e.begin("reset")
	set, err := e.gather(ctx, r, opts)
	if err != nil {
		return nil, r.fail(err)
	}
	return e.apply(ctx, r, set, target, opts)
}

// Verify reads every discovered file and reports each manifest's standing
// against the root record. It never stages or writes; the run ends in the
// Validating state. Read failures on individual manifests do not abort the
// report; they appear as per-file errors and count as out of sync.
func (e *Engine) Verify(ctx context.Context, opts Options) (*Report, error) {
	r := e.begin("verify")
	res, err := e.discover(r, opts)
	if err != nil {
		return nil, r.fail(err)
	}
	r.to(StateValidating)
	if err := discovery.Check(res); err != nil {
		return nil, r.fail(err)
	}

	recordState := stateFor(res.Record, e.registry)
	if err := e.read(recordState); err != nil {
		return nil, r.fail(err)
	}
	record, err := parseVersion(recordState)
	if err != nil {
		return nil, r.fail(err)
	}

	report := &Report{
		Root:          e.root,
		RecordPath:    res.Record.Path,
		RecordVersion: record.String(),
		InSync:        true,
	}
	for i := range res.Entries {
		entry := res.Entries[i]
		status := FileStatus{Path: entry.Path, RelPath: entry.RelPath, Format: entry.Format}
		st := stateFor(&entry, e.registry)
		if err := e.read(st); err != nil {
			status.Error = err.Error()
		} else {
			status.Version = st.version
			status.InSync = st.version == record.String()
		}
		if !status.InSync {
			report.InSync = false
		}
		report.Files = append(report.Files, status)
	}
	report.States = r.states
	report.Duration = time.Since(r.start)
	logger.Info("verify complete",
		logger.String("root", e.root),
		logger.String("version", report.RecordVersion),
		logger.Int("files", len(report.Files)),
		logger.Bool("in_sync", report.InSync))
	return report, nil
}

// apply runs the shared Staging and Committing phases for the mutating
// operations. The target version is final by the time apply is called.
func (e *Engine) apply(ctx context.Context, r *run, set *fileSet, target semver.Version, opts Options) (*Outcome, error) {
	r.to(StateStaging)
	changes, err := e.stage(set, target)
	if err != nil {
		return nil, r.fail(err)
	}

	out := &Outcome{
		Operation:  r.op,
		Root:       e.root,
		OldVersion: set.record.version,
		NewVersion: target.String(),
		Changes:    changes,
		TagName:    ExpandTag(e.tagTemplate, target, e.repoName),
		DryRun:     opts.DryRun,
	}

	if opts.DryRun {
		for _, c := range changes {
			logger.Info(fmt.Sprintf("would update %s: %s -> %s", c.RelPath, c.OldVersion, c.NewVersion))
		}
		out.States = r.states
		out.Duration = time.Since(r.start)
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}
	r.to(StateCommitting)
	if err := e.commit(changes); err != nil {
		return nil, r.fail(err)
	}

	r.to(StateDone)
	out.States = r.states
	out.Duration = time.Since(r.start)
	logger.Info("operation complete",
		logger.String("op", r.op),
		logger.String("old", out.OldVersion),
		logger.String("new", out.NewVersion),
		logger.Int("files", len(changes)))
	return out, nil
}

// run tracks a single operation's state trace. A fresh run is created per
// invocation; the engine itself stays stateless.
type run struct {
	op     string
	states []State
	start  time.Time
}

func (e *Engine) begin(op string) *run {
	r := &run{op: op, states: []State{StateIdle}, start: time.Now()}
	logger.Debug("operation starting", logger.String("op", op), logger.String("root", e.root))
	return r
}

func (r *run) to(s State) {
	r.states = append(r.states, s)
	logger.Debug("state transition", logger.String("op", r.op), logger.String("state", string(s)))
}

func (r *run) fail(err error) error {
	r.states = append(r.states, StateFailed)
	logger.Error("operation failed",
		logger.String("op", r.op),
		logger.String("code", string(errs.CodeOf(err))),
		logger.Err(err))
	return err
}
