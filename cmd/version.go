/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the semcast version",
	Long: `Print the version of the semcast binary itself. Use --extended for build
metadata (module version, VCS revision, Go toolchain, platform).

For the version recorded in the tree, use "semcast show".`,
	Args: exactArgs(0),
	RunE: runVersionCmd,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show detailed build information")

	if err := ops.RegisterCommand("version", ops.GroupSupport, ops.CategoryInformation, versionCmd, "Print the semcast version"); err != nil {
		panic(fmt.Sprintf("Failed to register version command: %v", err))
	}
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()

	if jsonOutput {
		info := map[string]interface{}{
			"version":   buildinfo.BinaryVersion,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			info["moduleVersion"] = orUnknown(buildinfo.ModuleVersion())
			info["vcsRevision"] = orUnknown(buildinfo.VCSRevision())
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if extended {
		fmt.Fprintf(out, "semcast %s\n", buildinfo.BinaryVersion)
		fmt.Fprintf(out, "  module:   %s\n", orUnknown(buildinfo.ModuleVersion()))
		fmt.Fprintf(out, "  revision: %s\n", orUnknown(buildinfo.VCSRevision()))
		fmt.Fprintf(out, "  go:       %s\n", orUnknown(buildinfo.GoVersion()))
		fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	}

	fmt.Fprintf(out, "semcast %s\n", buildinfo.BinaryVersion)
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
