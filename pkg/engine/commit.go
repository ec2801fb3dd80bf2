package engine

import (
	"bytes"
	"os"
	"strings"

	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/logger"
)

// commit writes every staged change in order: root record first, then
// manifests in discovery order (stage builds the slice that way), so the set
// of files touched before any mid-commit failure is reproducible. Immediately
// before each write the file is re-read and compared against the bytes
// captured at staging; any difference means something else touched the tree
// during the run and the commit stops without overwriting. Any failure rolls
// back every file already written this run.
func (e *Engine) commit(changes []StagedChange) error {
	var written []StagedChange
	for i := range changes {
		c := &changes[i]

		current, err := os.ReadFile(c.Path)
		if err != nil {
			return e.rollback(written, errs.Wrap(err, errs.ErrConcurrentModificationDetected,
				"file no longer readable at commit time").WithPath(c.Path))
		}
		if !bytes.Equal(current, c.Original) {
			return e.rollback(written, errs.Newf(errs.ErrConcurrentModificationDetected,
				"%s changed since it was staged; re-run to pick up the new content", c.RelPath).WithPath(c.Path))
		}

		if err := e.commitWrite(c.Path, c.Updated); err != nil {
			return e.rollback(written, err)
		}
		written = append(written, *c)
		logger.Info("updated",
			logger.String("path", c.RelPath),
			logger.String("old", c.OldVersion),
			logger.String("new", c.NewVersion))
	}
	return nil
}

// rollback restores every already-written file to its staged original and
// classifies the outcome. Full restoration of a plain write failure reports
// PartialWriteRecovered: the operation still failed, but the tree is exactly
// as discovered. A concurrent-modification failure keeps its own code once
// the tree is restored. If restoration itself fails, the result is
// PartialWriteUnrecoverable naming every file left modified, so the caller
// can reconcile by hand instead of trusting a half-applied tree.
func (e *Engine) rollback(written []StagedChange, cause error) error {
	var restored, stuck []string
	for _, c := range written {
		if err := e.restoreWrite(c.Path, c.Original); err != nil {
			stuck = append(stuck, c.Path)
			logger.Error("rollback failed to restore file",
				logger.String("path", c.RelPath),
				logger.Err(err))
			continue
		}
		restored = append(restored, c.Path)
		logger.Error("rolled back", logger.String("path", c.RelPath))
	}

	if len(stuck) > 0 {
		return errs.Wrapf(cause, errs.ErrPartialWriteUnrecoverable,
			"commit failed and rollback left %d file(s) modified: %s",
			len(stuck), strings.Join(stuck, ", ")).WithPaths(stuck)
	}
	if errs.IsCode(cause, errs.ErrConcurrentModificationDetected) {
		return cause
	}
	return errs.Wrapf(cause, errs.ErrPartialWriteRecovered,
		"commit failed; %d already-written file(s) restored to their original content",
		len(written)).WithPaths(restored)
}
