package cmd

import (
	"strings"
	"testing"
)

func TestSync_RepairsDivergedManifests(t *testing.T) {
	dir := writeTree(t, "1.0.0")
	writeFixture(t, dir, "VERSION", "2.0.0\n")

	out, err := execRoot(t, []string{"sync", "--root", dir})
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "synchronized 4 file(s) to 2.0.0") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(readFixture(t, dir, "Cargo.toml"), `version = "2.0.0"`) {
		t.Errorf("Cargo.toml not repaired")
	}
	if !strings.Contains(readFixture(t, dir, "pyproject.toml"), `version = "2.0.0"`) {
		t.Errorf("pyproject.toml not repaired")
	}
	if !strings.Contains(readFixture(t, dir, "pom.xml"), "<version>2.0.0</version>") {
		t.Errorf("pom.xml not repaired")
	}
}

func TestSync_NoChangesWhenInSync(t *testing.T) {
	dir := writeTree(t, "1.2.3")

	out, err := execRoot(t, []string{"sync", "--root", dir})
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "already in sync at 1.2.3") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSync_DryRunReportsWithoutWriting(t *testing.T) {
	dir := writeTree(t, "1.0.0")
	writeFixture(t, dir, "VERSION", "3.0.0\n")

	out, err := execRoot(t, []string{"sync", "--root", dir, "--dry-run"})
	if err != nil {
		t.Fatalf("sync --dry-run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "dry run: 4 file(s) would change") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "package.json: 1.0.0 -> 3.0.0") {
		t.Errorf("missing per-file change line: %s", out)
	}
	if !strings.Contains(readFixture(t, dir, "package.json"), `"version": "1.0.0"`) {
		t.Errorf("dry run modified package.json")
	}
}

func TestSync_RewritesUnparseableManifestVersion(t *testing.T) {
	dir := writeTree(t, "1.2.3")
	writeFixture(t, dir, "package.json", "{\n  \"name\": \"demo\",\n  \"version\": \"not-semver\"\n}\n")

	out, err := execRoot(t, []string{"sync", "--root", dir})
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(readFixture(t, dir, "package.json"), `"version": "1.2.3"`) {
		t.Errorf("package.json not repaired: %s", readFixture(t, dir, "package.json"))
	}
}
