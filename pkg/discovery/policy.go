package discovery

import (
	"strings"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// Policy checks are pure pass/fail functions the engine consults before any
// mutation. They run in a fixed order: symlink rejections surface before
// record-presence failures, so a symlinked VERSION reports as a symlink
// problem rather than a missing record.

// Check runs the structural policy checks over a discovery result.
func Check(res *Result) error {
	if err := CheckSymlinks(res); err != nil {
		return err
	}
	if err := CheckRecordPlacement(res); err != nil {
		return err
	}
	return CheckRecordPresence(res)
}

// CheckSymlinks fails when any candidate manifest or version record was
// rejected for being a symlink.
func CheckSymlinks(res *Result) error {
	var links []string
	for _, rej := range res.Rejected {
		if rej.Reason == ReasonSymlink {
			links = append(links, rej.Path)
		}
	}
	if len(links) > 0 {
		return errs.Newf(errs.ErrSymlinkManifestRejected,
			"symlinked manifests cannot be synchronized: %s", strings.Join(links, ", ")).WithPaths(links)
	}
	return nil
}

// CheckRecordPresence fails when the tree root carries no version record.
func CheckRecordPresence(res *Result) error {
	if res.Record == nil {
		return errs.New(errs.ErrMissingRootVersion,
			"no VERSION file at the tree root").WithPath(res.Root)
	}
	return nil
}

// CheckRecordPlacement re-asserts the single-root-record rule over a result.
// The walker already fails closed on violations; this guards results built
// by other means.
func CheckRecordPlacement(res *Result) error {
	return checkRecordPlacement(res.Root, res.RecordPaths)
}

// ReadOutcome pairs a discovered path with the result of reading its version
// field.
type ReadOutcome struct {
	Path string
	Err  error
}

// CheckReadable converts read failures into the policy error that blocks the
// whole cascade: one bad file stops the run before anything is staged.
func CheckReadable(outcomes []ReadOutcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return errs.Wrap(o.Err, errs.ErrUnreadableManifest,
				"cannot read version field").WithPath(o.Path)
		}
	}
	return nil
}
