package manifest

import (
	"strings"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// RecordAdapter handles the root VERSION file: a plain-text single-line
// record holding exactly one version string, optional trailing newline.
type RecordAdapter struct{}

// NewRecordAdapter creates a VERSION record adapter.
func NewRecordAdapter() *RecordAdapter {
	return &RecordAdapter{}
}

func (a *RecordAdapter) Name() string {
	return "record"
}

func (a *RecordAdapter) Detect(filename string) bool {
	return baseName(filename) == "VERSION"
}

func (a *RecordAdapter) ReadVersion(content []byte) (string, error) {
	version := strings.TrimSpace(string(content))
	if version == "" {
		return "", errs.New(errs.ErrMissingVersionField, "VERSION file is empty")
	}
	return version, nil
}

// WriteVersion emits the record in its normalized form: the version string
// and a trailing newline, nothing else.
func (a *RecordAdapter) WriteVersion(_ []byte, newVersion string) ([]byte, error) {
	return []byte(newVersion + "\n"), nil
}
