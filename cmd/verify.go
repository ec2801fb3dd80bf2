/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/engine"
	"github.com/fulmenhq/semcast/pkg/errs"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every manifest matches the root record",
	Long: `Verify reads the root VERSION record and every discovered manifest and
reports each file's standing. Nothing is ever written. The exit code carries
the verdict: 0 when the tree is in sync, 1 when any file disagrees with the
record or cannot be read.

Examples:
  semcast verify               # check the root directory's manifests
  semcast verify --cascade     # check the whole tree
  semcast verify --quiet       # exit code only, no table`,
	Args:         exactArgs(0),
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	addTreeFlags(verifyCmd)

	if err := ops.RegisterCommand("verify", ops.GroupCascade, ops.CategoryValidation, verifyCmd, "Check manifests against the record"); err != nil {
		panic(fmt.Sprintf("Failed to register verify command: %v", err))
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	op, err := newOperation(cmd, "")
	if err != nil {
		return err
	}

	report, err := op.eng.Verify(cmd.Context(), op.opts)
	if err != nil {
		return err
	}

	op.ui.Info("record %s: %s", report.RecordPath, report.RecordVersion)
	op.ui.Table(
		[]string{"FILE", "VERSION", "STATUS"},
		verifyRows(report),
	)

	if !report.InSync {
		mismatches := report.Mismatches()
		paths := make([]string, 0, len(mismatches))
		for _, f := range mismatches {
			paths = append(paths, f.RelPath)
		}
		op.ui.Failure("%d of %d file(s) out of sync with %s", len(mismatches), len(report.Files), report.RecordVersion)
		return errs.Newf(errs.ErrVersionMismatch, "%d file(s) out of sync with record version %s", len(mismatches), report.RecordVersion).WithPaths(paths)
	}

	op.ui.Success("all %d file(s) in sync at %s", len(report.Files), report.RecordVersion)
	return nil
}

func verifyRows(report *engine.Report) [][]string {
	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		switch {
		case f.Error != "":
			rows = append(rows, []string{f.RelPath, "-", "error: " + f.Error})
		case f.InSync:
			rows = append(rows, []string{f.RelPath, f.Version, "ok"})
		default:
			rows = append(rows, []string{f.RelPath, f.Version, "mismatch"})
		}
	}
	return rows
}
