/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the record and every detected manifest with sync state",
	Long: `Status prints the root VERSION record and every discovered manifest with
its declared version and sync standing. It is purely informational and always
exits 0; use verify when the exit code should carry the verdict.

Examples:
  semcast status               # the root directory's manifests
  semcast status --cascade     # the whole tree`,
	Args:         exactArgs(0),
	SilenceUsage: true,
	RunE:         runStatus,
}

func init() {
	addTreeFlags(statusCmd)

	if err := ops.RegisterCommand("status", ops.GroupInspect, ops.CategoryInformation, statusCmd, "Per-file sync table"); err != nil {
		panic(fmt.Sprintf("Failed to register status command: %v", err))
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	op, err := newOperation(cmd, "")
	if err != nil {
		return err
	}

	report, err := op.eng.Verify(cmd.Context(), op.opts)
	if err != nil {
		return err
	}

	recordRel, err := filepath.Rel(op.root, report.RecordPath)
	if err != nil {
		recordRel = report.RecordPath
	}

	rows := [][]string{{recordRel, "record", report.RecordVersion, "ok"}}
	for _, f := range report.Files {
		switch {
		case f.Error != "":
			rows = append(rows, []string{f.RelPath, f.Format, "-", "error: " + f.Error})
		case f.InSync:
			rows = append(rows, []string{f.RelPath, f.Format, f.Version, "ok"})
		default:
			rows = append(rows, []string{f.RelPath, f.Format, f.Version, "out of sync"})
		}
	}

	op.ui.Info("root: %s", op.root)
	op.ui.Table([]string{"FILE", "FORMAT", "VERSION", "STATUS"}, rows)

	if report.InSync {
		op.ui.Success("in sync at %s", report.RecordVersion)
	} else {
		op.ui.Warning("%d of %d file(s) out of sync with %s", len(report.Mismatches()), len(report.Files), report.RecordVersion)
	}
	return nil
}
