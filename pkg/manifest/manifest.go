// Package manifest implements the per-format adapters that read and rewrite
// the version field declared inside build-system manifests. Adapters are pure
// content transforms: detection is by file name, reads parse the document to
// locate the field unambiguously, and writes replace only the bytes of the
// version value so every comment, key order, and whitespace choice in the
// file survives a rewrite.
package manifest

import (
	"fmt"
	"path/filepath"
)

// Adapter is the three-operation contract every supported format implements.
// The format set is closed: a file is either claimed by exactly one adapter
// or ignored entirely.
type Adapter interface {
	// Name returns the format tag ("cargo", "python", "node", "maven", "record").
	Name() string
	// Detect reports whether the file name belongs to this format.
	Detect(filename string) bool
	// ReadVersion extracts the declared version from the file content.
	ReadVersion(content []byte) (string, error)
	// WriteVersion returns a full new file content with only the version
	// value replaced.
	WriteVersion(content []byte, newVersion string) ([]byte, error)
}

// Registry holds the record adapter plus the manifest adapters in a fixed,
// deterministic order.
type Registry struct {
	record    Adapter
	manifests []Adapter
}

// NewRegistry builds the default registry: the VERSION record plus every
// supported manifest format.
func NewRegistry() *Registry {
	return &Registry{
		record: NewRecordAdapter(),
		manifests: []Adapter{
			NewCargoAdapter(),
			NewPythonAdapter(),
			NewNodeAdapter(),
			NewMavenAdapter(),
		},
	}
}

// Record returns the root-version-record adapter.
func (r *Registry) Record() Adapter {
	return r.record
}

// Manifests returns the manifest adapters in registration order.
func (r *Registry) Manifests() []Adapter {
	return r.manifests
}

// IsRecord reports whether the file name is a root version record.
func (r *Registry) IsRecord(filename string) bool {
	return r.record.Detect(filename)
}

// ForFile returns the manifest adapter claiming the file name, if any.
func (r *Registry) ForFile(filename string) (Adapter, bool) {
	for _, a := range r.manifests {
		if a.Detect(filename) {
			return a, true
		}
	}
	return nil, false
}

// Filter restricts the registry to the named format tags. An empty only list
// keeps everything; exclusions are applied afterwards. Unknown tags are an
// error so a config typo cannot silently disable synchronization.
func (r *Registry) Filter(only, exclude []string) error {
	known := make(map[string]bool, len(r.manifests))
	for _, a := range r.manifests {
		known[a.Name()] = true
	}
	for _, tag := range append(append([]string{}, only...), exclude...) {
		if !known[tag] {
			return fmt.Errorf("unknown manifest format %q", tag)
		}
	}

	keep := r.manifests[:0]
	for _, a := range r.manifests {
		if len(only) > 0 && !contains(only, a.Name()) {
			continue
		}
		if contains(exclude, a.Name()) {
			continue
		}
		keep = append(keep, a)
	}
	r.manifests = keep
	return nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// baseName normalizes a possibly-pathed name for Detect comparisons.
func baseName(filename string) string {
	return filepath.Base(filename)
}
