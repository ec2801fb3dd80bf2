package manifest

import (
	"strings"
	"testing"

	"github.com/fulmenhq/semcast/pkg/errs"
)

func TestPythonAdapter_Detect(t *testing.T) {
	a := NewPythonAdapter()
	if !a.Detect("pyproject.toml") {
		t.Error("expected pyproject.toml to be detected")
	}
	if !a.Detect("services/worker/pyproject.toml") {
		t.Error("expected pathed pyproject.toml to be detected")
	}
	if a.Detect("setup.py") || a.Detect("Pipfile") {
		t.Error("only pyproject.toml belongs to this adapter")
	}
}

func TestPythonAdapter_ReadVersion_PEP621(t *testing.T) {
	content := `[build-system]
requires = ["hatchling"]

[project]
name = "widget"
version = "1.2.3"
requires-python = ">=3.11"
`
	a := NewPythonAdapter()
	version, err := a.ReadVersion([]byte(content))
	if err != nil {
		t.Fatalf("ReadVersion failed: %v", err)
	}
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", version)
	}
}

func TestPythonAdapter_ReadVersion_PoetryFallback(t *testing.T) {
	content := `[tool.poetry]
name = "widget"
version = "0.7.0"

[tool.poetry.dependencies]
python = "^3.11"
`
	a := NewPythonAdapter()
	version, err := a.ReadVersion([]byte(content))
	if err != nil {
		t.Fatalf("ReadVersion failed: %v", err)
	}
	if version != "0.7.0" {
		t.Errorf("expected version '0.7.0', got %q", version)
	}
}

func TestPythonAdapter_ReadVersion_ProjectWinsOverPoetry(t *testing.T) {
	content := `[project]
name = "widget"
version = "2.0.0"

[tool.poetry]
version = "1.0.0"
`
	a := NewPythonAdapter()
	version, err := a.ReadVersion([]byte(content))
	if err != nil {
		t.Fatalf("ReadVersion failed: %v", err)
	}
	if version != "2.0.0" {
		t.Errorf("PEP 621 [project] must win, got %q", version)
	}
}

func TestPythonAdapter_ReadVersion_Missing(t *testing.T) {
	a := NewPythonAdapter()
	content := `[project]
name = "widget"
dynamic = ["version"]
`
	if _, err := a.ReadVersion([]byte(content)); !errs.IsCode(err, errs.ErrMissingVersionField) {
		t.Fatalf("expected MISSING_VERSION_FIELD for dynamic version, got %v", err)
	}
}

func TestPythonAdapter_ReadVersion_Malformed(t *testing.T) {
	a := NewPythonAdapter()
	if _, err := a.ReadVersion([]byte("[project\nname = oops")); !errs.IsCode(err, errs.ErrMalformedManifest) {
		t.Fatalf("expected MALFORMED_MANIFEST, got %v", err)
	}
}

func TestPythonAdapter_WriteVersion_PreservesEverythingElse(t *testing.T) {
	content := `# Managed by release tooling.
[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"

[project]
name = "widget"
version = "1.2.3"  # keep in sync with VERSION
description = "A widget"

[tool.ruff]
line-length = 100
`
	a := NewPythonAdapter()
	updated, err := a.WriteVersion([]byte(content), "1.3.0")
	if err != nil {
		t.Fatalf("WriteVersion failed: %v", err)
	}
	want := strings.Replace(content, `version = "1.2.3"  # keep in sync with VERSION`, `version = "1.3.0"  # keep in sync with VERSION`, 1)
	if string(updated) != want {
		t.Errorf("rewrite changed more than the version value:\n--- got ---\n%s\n--- want ---\n%s", updated, want)
	}
}

func TestPythonAdapter_WriteVersion_UpdatesBothLocations(t *testing.T) {
	content := `[project]
name = "widget"
version = "1.0.0"

[tool.poetry]
name = "widget"
version = "1.0.0"
`
	a := NewPythonAdapter()
	updated, err := a.WriteVersion([]byte(content), "1.1.0")
	if err != nil {
		t.Fatalf("WriteVersion failed: %v", err)
	}
	if strings.Count(string(updated), `version = "1.1.0"`) != 2 {
		t.Errorf("both declared versions must be rewritten:\n%s", updated)
	}
}

func TestPythonAdapter_WriteVersion_NoVersionField(t *testing.T) {
	a := NewPythonAdapter()
	if _, err := a.WriteVersion([]byte("[project]\nname = \"widget\"\n"), "1.0.0"); !errs.IsCode(err, errs.ErrMalformedManifest) {
		t.Fatalf("expected MALFORMED_MANIFEST, got %v", err)
	}
}
