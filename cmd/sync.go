/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force every manifest to the root record's version",
	Long: `Sync rewrites every discovered manifest to the root VERSION record's current
value. Unlike bump it has no in-sync precondition: repairing divergence is
its job. Manifests already at the record's version are left untouched, so a
second sync stages nothing.

Examples:
  semcast sync                 # repair the root directory's manifests
  semcast sync --cascade       # repair the whole tree
  semcast sync --dry-run       # report what would be repaired`,
	Args:         exactArgs(0),
	SilenceUsage: true,
	RunE:         runSync,
}

func init() {
	addTreeFlags(syncCmd)
	addWriteFlags(syncCmd)

	if err := ops.RegisterCommand("sync", ops.GroupCascade, ops.CategoryMutation, syncCmd, "Force manifests to the record's version"); err != nil {
		panic(fmt.Sprintf("Failed to register sync command: %v", err))
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	op, err := newOperation(cmd, "")
	if err != nil {
		return err
	}

	out, err := op.eng.Sync(cmd.Context(), op.opts)
	if err != nil {
		return err
	}

	if out.DryRun {
		op.ui.Result("dry run: %d file(s) would change", len(out.Changes))
		op.reportChanges(out)
		return nil
	}

	if len(out.Changes) == 0 {
		op.ui.Success("already in sync at %s", out.NewVersion)
		return nil
	}

	op.ui.Success("synchronized %d file(s) to %s", len(out.Changes), out.NewVersion)
	op.reportChanges(out)
	return nil
}
