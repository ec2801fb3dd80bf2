// Package discovery enumerates the manifest files a synchronization run will
// operate on. The walker is traversal only: it decides which files belong to
// the run and which are rejected, but never reads version values, so it can
// be tested against synthetic directory trees. Content validation happens in
// the engine, guarded by the policy checks in policy.go.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/logger"
	"github.com/fulmenhq/semcast/pkg/manifest"
)

// RejectReason classifies why a candidate file was excluded from a run.
type RejectReason string

const (
	// ReasonSymlink marks a manifest or version record reached through a
	// symlink. Writing through an alias could silently modify an unrelated
	// file, so these are never synchronized.
	ReasonSymlink RejectReason = "symlink"
	// ReasonUnreadable marks a path the walker could not stat or descend
	// into.
	ReasonUnreadable RejectReason = "unreadable"
)

// ManifestEntry is one discovered file: where it lives and which format
// adapter claimed it.
type ManifestEntry struct {
	Path    string // absolute
	RelPath string // slash-separated, relative to the walk root
	Format  string // adapter name ("cargo", "python", "node", "maven", "record")
}

// Rejection records a candidate that was excluded, with the reason, so the
// caller can surface actionable diagnostics instead of silently skipping.
type Rejection struct {
	Path    string
	RelPath string
	Reason  RejectReason
}

// Result is the ordered outcome of one discovery pass.
type Result struct {
	Root        string
	Record      *ManifestEntry  // the root version record; nil when absent
	RecordPaths []string        // every record occurrence seen, for policy re-assertion
	Entries     []ManifestEntry // manifests in walk order
	Rejected    []Rejection
}

// Options tunes a cascade walk.
type Options struct {
	// ExtraIgnores holds additional doublestar exclude globs, typically from
	// the repo's config file. They apply whether or not the tree carries VCS
	// metadata.
	ExtraIgnores []string
}

// Walk discovers every manifest and version record under root, depth-first
// in lexical order. Gitignore filtering is active only when root carries a
// .git directory. Multiple version records, or a record anywhere below the
// root, fail the walk closed: the walker never picks one arbitrarily.
func Walk(root string, reg *manifest.Registry, opts Options) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrUnknown, "resolving walk root").WithPath(root)
	}

	matcher := newIgnoreMatcher(absRoot, opts.ExtraIgnores)
	logger.Debug("discovery walk starting",
		logger.String("root", absRoot),
		logger.Bool("ignore_rules", matcher.Enabled()))

	res := &Result{Root: absRoot}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return errs.Wrap(err, errs.ErrUnknown, "reading walk root").WithPath(path)
			}
			res.Rejected = append(res.Rejected, Rejection{
				Path:    path,
				RelPath: relSlash(absRoot, path),
				Reason:  ReasonUnreadable,
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		name := d.Name()
		rel := relSlash(absRoot, path)

		if d.IsDir() {
			// Hidden directories, the VCS metadata directory included, are
			// never descended into.
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if matcher.Ignored(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if matcher.Ignored(rel, false) {
			return nil
		}

		isRecord := reg.IsRecord(name)
		adapter, isManifest := reg.ForFile(name)
		if !isRecord && !isManifest {
			return nil
		}

		// d.Type() is the lstat mode: a symlinked manifest shows up here as
		// the link itself, not its target.
		if d.Type()&fs.ModeSymlink != 0 {
			res.Rejected = append(res.Rejected, Rejection{Path: path, RelPath: rel, Reason: ReasonSymlink})
			return nil
		}

		if isRecord {
			res.RecordPaths = append(res.RecordPaths, path)
			if rel == name {
				res.Record = &ManifestEntry{Path: path, RelPath: rel, Format: reg.Record().Name()}
			}
			return nil
		}

		res.Entries = append(res.Entries, ManifestEntry{Path: path, RelPath: rel, Format: adapter.Name()})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if err := checkRecordPlacement(absRoot, res.RecordPaths); err != nil {
		return nil, err
	}

	logger.Debug("discovery walk finished",
		logger.Int("manifests", len(res.Entries)),
		logger.Int("rejected", len(res.Rejected)))
	return res, nil
}

// Shallow discovers the fixed standard-mode set: the version record and the
// manifests sitting directly in root. No recursion, no ignore rules.
func Shallow(root string, reg *manifest.Registry) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrUnknown, "resolving root").WithPath(root)
	}

	dirEntries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrUnknown, "reading root directory").WithPath(absRoot)
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	res := &Result{Root: absRoot}
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		name := d.Name()
		path := filepath.Join(absRoot, name)

		isRecord := reg.IsRecord(name)
		adapter, isManifest := reg.ForFile(name)
		if !isRecord && !isManifest {
			continue
		}
		if d.Type()&fs.ModeSymlink != 0 {
			res.Rejected = append(res.Rejected, Rejection{Path: path, RelPath: name, Reason: ReasonSymlink})
			continue
		}
		if isRecord {
			res.RecordPaths = append(res.RecordPaths, path)
			res.Record = &ManifestEntry{Path: path, RelPath: name, Format: reg.Record().Name()}
			continue
		}
		res.Entries = append(res.Entries, ManifestEntry{Path: path, RelPath: name, Format: adapter.Name()})
	}
	return res, nil
}

// checkRecordPlacement fails the walk when record occurrences violate the
// single-root-record rule.
func checkRecordPlacement(root string, recordPaths []string) error {
	var nested []string
	for _, p := range recordPaths {
		if filepath.Dir(p) != root {
			nested = append(nested, p)
		}
	}
	if len(nested) > 0 {
		return errs.Newf(errs.ErrNestedVersionRecord,
			"version record found below the tree root: %s", strings.Join(nested, ", ")).WithPaths(nested)
	}
	if len(recordPaths) > 1 {
		return errs.Newf(errs.ErrMultipleRootVersions,
			"multiple root version records: %s", strings.Join(recordPaths, ", ")).WithPaths(recordPaths)
	}
	return nil
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
