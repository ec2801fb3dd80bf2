// Package gitctx is the version-control collaborator: it answers whether a
// tree is a repository, resolves the repository's name for tag templates,
// and creates tags once a synchronization run has committed. go-git is
// preferred; the git CLI is the fallback when the library cannot serve.
package gitctx

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HasVCSMetadata reports whether root carries a .git directory. The walker
// uses this to decide if ignore-pattern filtering applies; its absence
// disables filtering entirely and is not an error.
func HasVCSMetadata(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}

// IsRepo reports whether root is inside a git repository.
func IsRepo(root string) bool {
	if _, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		return true
	}
	if _, err := exec.LookPath("git"); err != nil {
		return false
	}
	out := runGit(root, "rev-parse", "--is-inside-work-tree")
	return strings.TrimSpace(out) == "true"
}

// RepoName resolves the repository name for the {repository_name} tag
// placeholder: the basename of the origin remote URL when one exists,
// otherwise the basename of the root directory.
func RepoName(root string) string {
	if repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		if remote, err := repo.Remote("origin"); err == nil {
			urls := remote.Config().URLs
			if len(urls) > 0 {
				if name := nameFromRemoteURL(urls[0]); name != "" {
					return name
				}
			}
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

// CreateTag creates an annotated tag at HEAD via go-git, falling back to the
// git CLI when the library cannot open or tag the repository.
func CreateTag(root, name, message string) error {
	if repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		head, err := repo.Head()
		if err == nil {
			opts := &git.CreateTagOptions{Message: message}
			if sig := tagSignature(repo); sig != nil {
				opts.Tagger = sig
			}
			if _, err := repo.CreateTag(name, head.Hash(), opts); err == nil {
				return nil
			} else if err == git.ErrTagExists {
				return fmt.Errorf("tag %s already exists", name)
			}
		}
	}

	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("cannot create tag %s: git not available", name)
	}
	cmd := exec.Command("git", "tag", "-a", name, "-m", message)
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git tag %s failed: %v: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// tagSignature builds a tagger identity from repository config, or nil to
// let go-git fall back to its own resolution.
func tagSignature(repo *git.Repository) *object.Signature {
	cfg, err := repo.ConfigScoped(gitconfig.GlobalScope)
	if err != nil || cfg.User.Name == "" {
		return nil
	}
	return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email}
}

// nameFromRemoteURL extracts the repository basename from a remote URL,
// handling both SSH (git@host:org/repo.git) and HTTPS forms.
func nameFromRemoteURL(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return trimmed
}

func runGit(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, _ := cmd.Output()
	return string(out)
}
