package manifest

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// CargoAdapter handles Cargo.toml files: version lives under the [package]
// table.
type CargoAdapter struct{}

// NewCargoAdapter creates a Cargo.toml adapter.
func NewCargoAdapter() *CargoAdapter {
	return &CargoAdapter{}
}

func (a *CargoAdapter) Name() string {
	return "cargo"
}

func (a *CargoAdapter) Detect(filename string) bool {
	return baseName(filename) == "Cargo.toml"
}

// ReadVersion parses the document to locate [package].version unambiguously.
// Workspace-inherited versions (version.workspace = true) are reported as
// missing: there is no literal value to synchronize.
func (a *CargoAdapter) ReadVersion(content []byte) (string, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return "", errs.Wrap(err, errs.ErrMalformedManifest, "parsing Cargo.toml")
	}

	pkg, ok := doc["package"].(map[string]interface{})
	if !ok {
		return "", errs.New(errs.ErrMissingVersionField, "no [package] table in Cargo.toml")
	}
	version, ok := pkg["version"].(string)
	if !ok || version == "" {
		return "", errs.New(errs.ErrMissingVersionField, "no version field in [package] table")
	}
	return version, nil
}

// WriteVersion rewrites [package].version in place and confirms the result
// parses back to the requested value before returning it.
func (a *CargoAdapter) WriteVersion(content []byte, newVersion string) ([]byte, error) {
	updated, ok := replaceTOMLValue(content, "package", "version", newVersion)
	if !ok {
		return nil, errs.New(errs.ErrMalformedManifest, "cannot locate [package].version in Cargo.toml")
	}
	got, err := a.ReadVersion(updated)
	if err != nil || got != newVersion {
		return nil, errs.New(errs.ErrMalformedManifest, "rewritten Cargo.toml does not carry the new version")
	}
	return updated, nil
}
