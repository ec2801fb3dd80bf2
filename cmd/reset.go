/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/semver"
)

var resetCmd = &cobra.Command{
	Use:   "reset [version]",
	Short: "Set the record and every manifest to an explicit version",
	Long: `Reset rewrites the root VERSION record and every discovered manifest to the
given version (0.0.0 when omitted), regardless of what any of them currently
declare. It is the recovery path for a diverged or corrupted tree, so unlike
bump it has no in-sync precondition.

Examples:
  semcast reset                    # back to 0.0.0
  semcast reset 2.0.0 --cascade    # pin the whole tree to 2.0.0
  semcast reset 1.0.0 --dry-run    # report the rewrites without writing`,
	Args:         maximumArgs(1),
	SilenceUsage: true,
	RunE:         runReset,
}

func init() {
	addTreeFlags(resetCmd)
	addWriteFlags(resetCmd)

	if err := ops.RegisterCommand("reset", ops.GroupCascade, ops.CategoryMutation, resetCmd, "Set record and manifests to an explicit version"); err != nil {
		panic(fmt.Sprintf("Failed to register reset command: %v", err))
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	target := semver.Version{}
	if len(args) > 0 {
		v, err := semver.Parse(args[0])
		if err != nil {
			return &usageError{err}
		}
		target = v
	}

	op, err := newOperation(cmd, "")
	if err != nil {
		return err
	}

	out, err := op.eng.Reset(cmd.Context(), target, op.opts)
	if err != nil {
		return err
	}

	if out.DryRun {
		op.ui.Result("dry run: %d file(s) would change", len(out.Changes))
		op.reportChanges(out)
		return nil
	}

	if len(out.Changes) == 0 {
		op.ui.Success("already at %s", out.NewVersion)
		return nil
	}

	op.ui.Success("reset %d file(s) to %s", len(out.Changes), out.NewVersion)
	op.reportChanges(out)
	return nil
}
