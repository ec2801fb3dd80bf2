package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/manifest"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func relPaths(entries []ManifestEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelPath)
	}
	return out
}

func TestWalkFindsManifestsInOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":            "1.0.0\n",
		"Cargo.toml":         "[package]\nversion = \"1.0.0\"\n",
		"api/pyproject.toml": "[project]\nversion = \"1.0.0\"\n",
		"ui/package.json":    `{"version": "1.0.0"}`,
		"ui/pom.xml":         "<project><version>1.0.0</version></project>",
		"README.md":          "not a manifest",
	})

	res, err := Walk(root, manifest.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if res.Record == nil || res.Record.RelPath != "VERSION" {
		t.Fatalf("record = %+v, want VERSION at root", res.Record)
	}
	want := []string{"Cargo.toml", "api/pyproject.toml", "ui/package.json", "ui/pom.xml"}
	got := relPaths(res.Entries)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %s, want %s (walk order must be deterministic)", i, got[i], want[i])
		}
	}
	formats := map[string]string{
		"Cargo.toml":         "cargo",
		"api/pyproject.toml": "python",
		"ui/package.json":    "node",
		"ui/pom.xml":         "maven",
	}
	for _, e := range res.Entries {
		if formats[e.RelPath] != e.Format {
			t.Errorf("%s claimed by %s, want %s", e.RelPath, e.Format, formats[e.RelPath])
		}
	}
}

func TestWalkSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":              "1.0.0\n",
		".cache/Cargo.toml":    "[package]\nversion = \"0.0.1\"\n",
		".config/package.json": `{"version": "0.0.1"}`,
		"src/Cargo.toml":       "[package]\nversion = \"1.0.0\"\n",
	})

	res, err := Walk(root, manifest.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "src/Cargo.toml" {
		t.Errorf("entries = %v, want only src/Cargo.toml", got)
	}
}

func TestWalkHonorsGitignoreOnlyWithVCSMetadata(t *testing.T) {
	layout := map[string]string{
		"VERSION":          "1.0.0\n",
		".gitignore":       "build/\n",
		"Cargo.toml":       "[package]\nversion = \"1.0.0\"\n",
		"build/Cargo.toml": "[package]\nversion = \"0.0.1\"\n",
	}

	t.Run("with_git_dir", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, layout)
		if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
			t.Fatal(err)
		}

		res, err := Walk(root, manifest.NewRegistry(), Options{})
		if err != nil {
			t.Fatalf("Walk failed: %v", err)
		}
		got := relPaths(res.Entries)
		if len(got) != 1 || got[0] != "Cargo.toml" {
			t.Errorf("entries = %v, want the gitignored manifest excluded", got)
		}
	})

	t.Run("without_git_dir", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, layout)

		res, err := Walk(root, manifest.NewRegistry(), Options{})
		if err != nil {
			t.Fatalf("Walk failed: %v", err)
		}
		// No VCS metadata: ignore filtering is disabled entirely, not an
		// error.
		got := relPaths(res.Entries)
		if len(got) != 2 {
			t.Errorf("entries = %v, want both manifests without .git", got)
		}
	})
}

func TestWalkGitignoreNegation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":       "1.0.0\n",
		".gitignore":    "Cargo.toml\n!ui/Cargo.toml\n",
		"Cargo.toml":    "[package]\nversion = \"1.0.0\"\n",
		"ui/Cargo.toml": "[package]\nversion = \"1.0.0\"\n",
	})
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Walk(root, manifest.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "ui/Cargo.toml" {
		t.Errorf("entries = %v, want the negated path re-included and the rest excluded", got)
	}
}

func TestWalkNestedGitignoreScopedToItsDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":                "1.0.0\n",
		"sub/.gitignore":         "generated/\n",
		"sub/generated/pom.xml":  "<project><version>0.0.1</version></project>",
		"generated/package.json": `{"version": "1.0.0"}`,
	})
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Walk(root, manifest.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	// sub/.gitignore scopes to sub/: the root-level generated/ is untouched.
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "generated/package.json" {
		t.Errorf("entries = %v, want only the root-level generated manifest", got)
	}
}

func TestWalkExtraIgnoresApplyWithoutGit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":             "1.0.0\n",
		"Cargo.toml":          "[package]\nversion = \"1.0.0\"\n",
		"vendor/Cargo.toml":   "[package]\nversion = \"0.0.1\"\n",
		"deep/vendor/pom.xml": "<project><version>0.0.1</version></project>",
	})

	res, err := Walk(root, manifest.NewRegistry(), Options{ExtraIgnores: []string{"**/vendor/**", "vendor/**"}})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "Cargo.toml" {
		t.Errorf("entries = %v, want config globs honored without .git", got)
	}
}

func TestWalkRejectsSymlinkedManifest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":         "1.0.0\n",
		"real/Cargo.toml": "[package]\nversion = \"1.0.0\"\n",
	})
	if err := os.Symlink(filepath.Join(root, "real", "Cargo.toml"), filepath.Join(root, "Cargo.toml")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	res, err := Walk(root, manifest.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	for _, e := range res.Entries {
		if e.RelPath == "Cargo.toml" {
			t.Error("symlinked manifest included in entries")
		}
	}
	found := false
	for _, rej := range res.Rejected {
		if rej.RelPath == "Cargo.toml" && rej.Reason == ReasonSymlink {
			found = true
		}
	}
	if !found {
		t.Errorf("rejections = %+v, want Cargo.toml rejected as symlink", res.Rejected)
	}
}

func TestWalkFailsClosedOnNestedRecord(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":     "1.0.0\n",
		"sub/VERSION": "2.0.0\n",
	})

	_, err := Walk(root, manifest.NewRegistry(), Options{})
	if !errs.IsCode(err, errs.ErrNestedVersionRecord) {
		t.Fatalf("expected NESTED_VERSION_RECORD, got %v", err)
	}
	if path := errs.PathOf(err); path != "" && !filepath.IsAbs(path) {
		t.Errorf("offending path should be absolute, got %q", path)
	}
}

func TestWalkFailsClosedOnRecordBelowRootOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"sub/VERSION": "2.0.0\n",
	})

	// Even with no record at the root, a nested record is its own failure:
	// the walker never promotes it.
	_, err := Walk(root, manifest.NewRegistry(), Options{})
	if !errs.IsCode(err, errs.ErrNestedVersionRecord) {
		t.Fatalf("expected NESTED_VERSION_RECORD, got %v", err)
	}
}

func TestShallowUsesOnlyRootDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":         "1.0.0\n",
		"Cargo.toml":      "[package]\nversion = \"1.0.0\"\n",
		"ui/package.json": `{"version": "9.9.9"}`,
	})

	res, err := Shallow(root, manifest.NewRegistry())
	if err != nil {
		t.Fatalf("Shallow failed: %v", err)
	}
	if res.Record == nil {
		t.Fatal("record not found in root directory")
	}
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "Cargo.toml" {
		t.Errorf("entries = %v, want only the root-level manifest", got)
	}
}

func TestWalkRegistryFilterDropsFormats(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION":      "1.0.0\n",
		"Cargo.toml":   "[package]\nversion = \"1.0.0\"\n",
		"package.json": `{"version": "1.0.0"}`,
	})

	reg := manifest.NewRegistry()
	if err := reg.Filter(nil, []string{"node"}); err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	res, err := Walk(root, reg, Options{})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	got := relPaths(res.Entries)
	if len(got) != 1 || got[0] != "Cargo.toml" {
		t.Errorf("entries = %v, want package.json dropped by the format filter", got)
	}
}
