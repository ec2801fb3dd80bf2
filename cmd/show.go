/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/errs"
	"github.com/fulmenhq/semcast/pkg/manifest"
	"github.com/fulmenhq/semcast/pkg/semver"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the root record's version",
	Long: `Show prints the version declared by the root VERSION record and nothing
else, so scripts can capture it directly:

  VERSION=$(semcast show --quiet)`,
	Args:         exactArgs(0),
	SilenceUsage: true,
	RunE:         runShow,
}

func init() {
	showCmd.Flags().String("root", ".", "Repository root to operate on")

	if err := ops.RegisterCommand("show", ops.GroupInspect, ops.CategoryInformation, showCmd, "Print the record's version"); err != nil {
		panic(fmt.Sprintf("Failed to register show command: %v", err))
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}

	record := manifest.NewRegistry().Record()
	recordPath := filepath.Join(root, "VERSION")

	data, err := os.ReadFile(recordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.New(errs.ErrMissingRootVersion, "no VERSION record at tree root").WithPath(root)
		}
		return errs.Wrap(err, errs.ErrUnreadableManifest, "reading version record").WithPath(recordPath)
	}

	raw, err := record.ReadVersion(data)
	if err != nil {
		return errs.Wrapf(err, errs.CodeOf(err), "reading version record").WithPath(recordPath)
	}
	v, err := semver.Parse(raw)
	if err != nil {
		return errs.Wrapf(err, errs.CodeOf(err), "parsing version record").WithPath(recordPath)
	}

	newConsole(cmd).Result("%s", v.String())
	return nil
}
