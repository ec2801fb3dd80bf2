package gitctx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepoWithCommit creates a repository with one commit and a local user
// identity, so tagging never depends on machine-level git configuration.
func initRepoWithCommit(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("read repo config: %v", err)
	}
	cfg.User.Name = "Release Bot"
	cfg.User.Email = "release@example.com"
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("write repo config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.0.0\n"), 0o644); err != nil {
		t.Fatalf("write VERSION: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("VERSION"); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "Release Bot", Email: "release@example.com", When: time.Now()}
	if _, err := wt.Commit("initial", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir, repo
}

func TestHasVCSMetadata(t *testing.T) {
	dir := t.TempDir()
	if HasVCSMetadata(dir) {
		t.Error("bare directory should not report VCS metadata")
	}

	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	if !HasVCSMetadata(dir) {
		t.Error("directory with .git should report VCS metadata")
	}
}

func TestHasVCSMetadataIgnoresGitFile(t *testing.T) {
	// Worktrees and submodules carry a .git file, not a directory. The
	// walker only needs the top-level repository case.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere\n"), 0o644); err != nil {
		t.Fatalf("write .git file: %v", err)
	}
	if HasVCSMetadata(dir) {
		t.Error(".git regular file should not count as VCS metadata")
	}
}

func TestIsRepo(t *testing.T) {
	dir, _ := initRepoWithCommit(t)
	if !IsRepo(dir) {
		t.Error("initialized repository should report IsRepo true")
	}
	if IsRepo(t.TempDir()) {
		t.Error("plain temp directory should report IsRepo false")
	}
}

func TestNameFromRemoteURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:fulmenhq/semcast.git", "semcast"},
		{"https://github.com/fulmenhq/semcast.git", "semcast"},
		{"https://github.com/fulmenhq/semcast", "semcast"},
		{"https://example.com/deep/group/tool/", "tool"},
		{"ssh://git@host:2222/org/widget.git", "widget"},
		{"local-checkout", "local-checkout"},
	}
	for _, tt := range tests {
		if got := nameFromRemoteURL(tt.url); got != tt.want {
			t.Errorf("nameFromRemoteURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRepoNameFallsBackToDirectory(t *testing.T) {
	dir := t.TempDir()
	if got, want := RepoName(dir), filepath.Base(dir); got != want {
		t.Errorf("RepoName = %q, want directory base %q", got, want)
	}
}

func TestRepoNameFromOriginRemote(t *testing.T) {
	dir, repo := initRepoWithCommit(t)
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/rocket-sled.git"},
	})
	if err != nil {
		t.Fatalf("create remote: %v", err)
	}

	if got := RepoName(dir); got != "rocket-sled" {
		t.Errorf("RepoName = %q, want rocket-sled", got)
	}
}

func TestCreateTag(t *testing.T) {
	dir, repo := initRepoWithCommit(t)

	if err := CreateTag(dir, "v1.0.0", "Release v1.0.0"); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if _, err := repo.Tag("v1.0.0"); err != nil {
		t.Errorf("tag v1.0.0 not found after CreateTag: %v", err)
	}
}

func TestCreateTagRejectsDuplicate(t *testing.T) {
	dir, _ := initRepoWithCommit(t)

	if err := CreateTag(dir, "v2.0.0", "Release v2.0.0"); err != nil {
		t.Fatalf("first CreateTag: %v", err)
	}
	err := CreateTag(dir, "v2.0.0", "Release v2.0.0")
	if err == nil {
		t.Fatal("expected duplicate tag to fail")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate tag error = %v, want mention of already exists", err)
	}
}
