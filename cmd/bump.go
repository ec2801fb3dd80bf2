/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/gitctx"
	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/semver"
)

var bumpCmd = &cobra.Command{
	Use:   "bump <major|minor|patch>",
	Short: "Increment the version and propagate it to every manifest",
	Long: `Bump increments one component of the root VERSION record and rewrites every
discovered manifest to the result as a single transaction. The tree must
already be in sync: any manifest that disagrees with the record blocks the
bump before a single byte is written.

Examples:
  semcast bump patch               # 1.2.3 -> 1.2.4 in the root directory
  semcast bump minor --cascade     # recurse across the whole tree
  semcast bump major --dry-run     # report the rewrites without writing
  semcast bump patch --tag         # also create the git tag (default v{version})`,
	Args:         exactArgs(1),
	SilenceUsage: true,
	RunE:         runBump,
}

func init() {
	addTreeFlags(bumpCmd)
	addWriteFlags(bumpCmd)
	bumpCmd.Flags().Bool("tag", false, "Create an annotated git tag after a successful bump")
	bumpCmd.Flags().String("tag-template", "", "Tag name template (overrides config; default v{version})")

	if err := ops.RegisterCommand("bump", ops.GroupCascade, ops.CategoryMutation, bumpCmd, "Increment the version and propagate it"); err != nil {
		panic(fmt.Sprintf("Failed to register bump command: %v", err))
	}
}

func runBump(cmd *cobra.Command, args []string) error {
	kind, err := semver.ParseKind(args[0])
	if err != nil {
		return &usageError{err}
	}

	tagTemplate, _ := cmd.Flags().GetString("tag-template")
	op, err := newOperation(cmd, tagTemplate)
	if err != nil {
		return err
	}

	out, err := op.eng.Bump(cmd.Context(), kind, op.opts)
	if err != nil {
		return err
	}

	createTag, _ := cmd.Flags().GetBool("tag")
	if out.DryRun {
		op.ui.Result("dry run: %s -> %s, %d file(s) would change", out.OldVersion, out.NewVersion, len(out.Changes))
		op.reportChanges(out)
		if createTag {
			op.ui.Result("  would create tag %s", out.TagName)
		}
		return nil
	}

	op.ui.Success("bumped %s -> %s (%d file(s))", out.OldVersion, out.NewVersion, len(out.Changes))
	op.reportChanges(out)

	if createTag {
		if err := gitctx.CreateTag(op.root, out.TagName, "Release "+out.TagName); err != nil {
			return err
		}
		op.ui.Success("created tag %s", out.TagName)
	}
	return nil
}
