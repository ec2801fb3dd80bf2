package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/semcast/pkg/discovery"
	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/logger"
	"github.com/fulmenhq/semcast/pkg/manifest"
	"github.com/fulmenhq/semcast/pkg/safeio"
	"github.com/fulmenhq/semcast/pkg/semver"
)

// fileState is one discovered file loaded into memory: its entry, the adapter
// claiming it, the exact bytes on disk, and the version string the adapter
// extracted. The version is kept as declared; parsing it is a separate,
// per-operation decision.
type fileState struct {
	entry   discovery.ManifestEntry
	adapter manifest.Adapter
	content []byte
	version string
}

// fileSet is everything a mutating operation works on: the root record plus
// the manifests in discovery order.
type fileSet struct {
	record    *fileState
	manifests []*fileState
}

// discover runs the Discovering phase: a full cascade walk, or the fixed
// root-level set when cascade is off.
func (e *Engine) discover(r *run, opts Options) (*discovery.Result, error) {
	r.to(StateDiscovering)
	if opts.Cascade {
		return discovery.Walk(e.root, e.registry, discovery.Options{ExtraIgnores: e.ignores})
	}
	return discovery.Shallow(e.root, e.registry)
}

// gather runs Discovering plus the shared half of Validating: structural
// policy checks, then reading every file's content and declared version. A
// single unreadable file fails the whole set before anything is staged.
func (e *Engine) gather(ctx context.Context, r *run, opts Options) (*fileSet, error) {
	res, err := e.discover(r, opts)
	if err != nil {
		return nil, err
	}

	r.to(StateValidating)
	if err := discovery.Check(res); err != nil {
		return nil, err
	}

	set := &fileSet{record: stateFor(res.Record, e.registry)}
	for i := range res.Entries {
		set.manifests = append(set.manifests, stateFor(&res.Entries[i], e.registry))
	}
	if err := e.readAll(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// readAll loads content and declared versions for the whole set. Files are
// independent, so reads run concurrently; failures are collected in discovery
// order so the reported file does not depend on goroutine scheduling.
func (e *Engine) readAll(ctx context.Context, set *fileSet) error {
	states := append([]*fileState{set.record}, set.manifests...)
	outcomes := make([]discovery.ReadOutcome, len(states))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.readLimit)
	for i, st := range states {
		i, st := i, st
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = discovery.ReadOutcome{Path: st.entry.Path, Err: e.read(st)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return discovery.CheckReadable(outcomes)
}

// read loads one file and extracts its declared version. I/O failures come
// back as UnreadableManifest; adapter failures keep their own codes.
func (e *Engine) read(st *fileState) error {
	content, err := safeio.ReadFileContained(e.root, st.entry.Path)
	if err != nil {
		return errs.Wrap(err, errs.ErrUnreadableManifest, "reading manifest").WithPath(st.entry.Path)
	}
	st.content = content

	version, err := st.adapter.ReadVersion(content)
	if err != nil {
		return withPath(err, st.entry.Path)
	}
	st.version = version
	return nil
}

// stateFor pairs a discovered entry with the adapter that claimed it.
func stateFor(entry *discovery.ManifestEntry, reg *manifest.Registry) *fileState {
	return &fileState{entry: *entry, adapter: adapterFor(entry.Format, reg)}
}

// adapterFor resolves a format tag back to its adapter. Discovery only emits
// entries this registry claimed, so the lookup cannot miss.
func adapterFor(format string, reg *manifest.Registry) manifest.Adapter {
	if reg.Record().Name() == format {
		return reg.Record()
	}
	for _, a := range reg.Manifests() {
		if a.Name() == format {
			return a
		}
	}
	return nil
}

// parseRecordVersion strict-parses the root record's declared version.
func parseRecordVersion(set *fileSet) (semver.Version, error) {
	return parseVersion(set.record)
}

// parseVersion strict-parses a file's declared version, attaching the file
// path to the failure.
func parseVersion(st *fileState) (semver.Version, error) {
	v, err := semver.Parse(st.version)
	if err != nil {
		return semver.Version{}, withPath(err, st.entry.Path)
	}
	return v, nil
}

// parseManifestVersions strict-parses every manifest's declared version, so
// format failures surface before mismatch failures.
func parseManifestVersions(set *fileSet) error {
	for _, st := range set.manifests {
		if _, err := parseVersion(st); err != nil {
			return err
		}
	}
	return nil
}

// requireInSync fails when any manifest's declared version differs from the
// record's. Build metadata counts: "1.2.3+build" against a record of "1.2.3"
// is a mismatch, because the next sync would rewrite it.
func requireInSync(set *fileSet, record semver.Version) error {
	var details []string
	var paths []string
	for _, st := range set.manifests {
		v, err := parseVersion(st)
		if err != nil {
			return err
		}
		if v != record {
			details = append(details, fmt.Sprintf("%s declares %s", st.entry.RelPath, st.version))
			paths = append(paths, st.entry.Path)
		}
	}
	if len(paths) > 0 {
		return errs.Newf(errs.ErrVersionMismatch,
			"tree is out of sync with the root record (%s): %s; run 'semcast sync' or fix the files first",
			record.String(), strings.Join(details, ", ")).WithPaths(paths)
	}
	return nil
}

// stage computes the full rewrite for every file not already declaring the
// target version, record first. Nothing touches disk here; a staging failure
// leaves the tree exactly as discovered.
func (e *Engine) stage(set *fileSet, target semver.Version) ([]StagedChange, error) {
	want := target.String()
	ordered := append([]*fileState{set.record}, set.manifests...)

	var changes []StagedChange
	for _, st := range ordered {
		if st.version == want {
			logger.Debug("already at target", logger.String("path", st.entry.RelPath))
			continue
		}
		updated, err := st.adapter.WriteVersion(st.content, want)
		if err != nil {
			return nil, withPath(err, st.entry.Path)
		}
		changes = append(changes, StagedChange{
			Path:       st.entry.Path,
			RelPath:    st.entry.RelPath,
			Format:     st.entry.Format,
			Original:   st.content,
			Updated:    updated,
			OldVersion: st.version,
			NewVersion: want,
		})
	}
	logger.Debug("staging complete", logger.Int("changes", len(changes)), logger.String("target", want))
	return changes, nil
}

// withPath attaches path to a coded error that does not already name a file.
func withPath(err error, path string) error {
	var ce *errs.Error
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}
