package manifest

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// PythonAdapter handles pyproject.toml files: [project].version (PEP 621)
// with [tool.poetry].version as the fallback location.
type PythonAdapter struct{}

// NewPythonAdapter creates a pyproject.toml adapter.
func NewPythonAdapter() *PythonAdapter {
	return &PythonAdapter{}
}

func (a *PythonAdapter) Name() string {
	return "python"
}

func (a *PythonAdapter) Detect(filename string) bool {
	return baseName(filename) == "pyproject.toml"
}

func (a *PythonAdapter) ReadVersion(content []byte) (string, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return "", errs.Wrap(err, errs.ErrMalformedManifest, "parsing pyproject.toml")
	}

	if project, ok := doc["project"].(map[string]interface{}); ok {
		if version, ok := project["version"].(string); ok && version != "" {
			return version, nil
		}
	}

	if tool, ok := doc["tool"].(map[string]interface{}); ok {
		if poetry, ok := tool["poetry"].(map[string]interface{}); ok {
			if version, ok := poetry["version"].(string); ok && version != "" {
				return version, nil
			}
		}
	}

	return "", errs.New(errs.ErrMissingVersionField, "no version field in [project] or [tool.poetry]")
}

// WriteVersion rewrites every declared version location so a file carrying
// both [project] and [tool.poetry] stays internally consistent.
func (a *PythonAdapter) WriteVersion(content []byte, newVersion string) ([]byte, error) {
	updated := content
	written := false

	if next, ok := replaceTOMLValue(updated, "project", "version", newVersion); ok {
		updated = next
		written = true
	}
	if next, ok := replaceTOMLValue(updated, "tool.poetry", "version", newVersion); ok {
		updated = next
		written = true
	}
	if !written {
		return nil, errs.New(errs.ErrMalformedManifest, "cannot locate a version field in pyproject.toml")
	}

	got, err := a.ReadVersion(updated)
	if err != nil || got != newVersion {
		return nil, errs.New(errs.ErrMalformedManifest, "rewritten pyproject.toml does not carry the new version")
	}
	return updated, nil
}
