package discovery

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/fulmenhq/semcast/internal/gitctx"
)

// ignoreMatcher layers the repository's gitignore rules with extra exclude
// globs from configuration. Gitignore rules load only when the root carries
// VCS metadata; a tree without .git gets no gitignore filtering at all, which
// is expected, not an error. Config globs apply either way.
type ignoreMatcher struct {
	git   gitignore.Matcher
	extra []string
}

func newIgnoreMatcher(root string, extra []string) *ignoreMatcher {
	m := &ignoreMatcher{extra: extra}
	if !gitctx.HasVCSMetadata(root) {
		return m
	}

	// ReadPatterns collects .gitignore files across the whole tree, each
	// pattern scoped to the directory that declared it, so later and deeper
	// patterns override earlier ones and "!" re-inclusion works as git does
	// it.
	fs := osfs.New(root)
	if patterns, err := gitignore.ReadPatterns(fs, nil); err == nil && len(patterns) > 0 {
		m.git = gitignore.NewMatcher(patterns)
	}
	return m
}

// Enabled reports whether any filtering rules are loaded.
func (m *ignoreMatcher) Enabled() bool {
	return m.git != nil || len(m.extra) > 0
}

// Ignored reports whether the slash-separated path relative to the walk root
// is excluded. Directory matches prune the whole subtree.
func (m *ignoreMatcher) Ignored(relPath string, isDir bool) bool {
	if relPath == "" || relPath == "." {
		return false
	}
	if m.git != nil && m.git.Match(splitPath(relPath), isDir) {
		return true
	}
	for _, pattern := range m.extra {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// splitPath converts a slash-separated relative path into the component list
// the go-git matcher wants.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
