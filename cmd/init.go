/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymerick/raymond"
	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/assets"
	"github.com/fulmenhq/semcast/internal/gitctx"
	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/config"
	"github.com/fulmenhq/semcast/pkg/safeio"
	"github.com/fulmenhq/semcast/pkg/semver"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a VERSION record and .semcast.yaml config",
	Long: `Init writes the two files semcast works from: a root VERSION record holding
the initial version, and a commented .semcast.yaml configuration. Existing
files are never overwritten without --force.

Examples:
  semcast init                           # VERSION at 0.0.0 plus default config
  semcast init --initial-version 1.0.0   # start from 1.0.0
  semcast init --dry-run                 # print what would be written`,
	Args:         exactArgs(0),
	SilenceUsage: true,
	RunE:         runInit,
}

var (
	initInitialVersion string
	initForce          bool
	initDryRun         bool
)

func init() {
	initCmd.Flags().String("root", ".", "Repository root to operate on")
	initCmd.Flags().StringVar(&initInitialVersion, "initial-version", "0.0.0", "Initial version to record")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Show what would be written without writing")

	if err := ops.RegisterCommand("init", ops.GroupSupport, ops.CategoryConfiguration, initCmd, "Scaffold VERSION and config"); err != nil {
		panic(fmt.Sprintf("Failed to register init command: %v", err))
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}

	version, err := semver.Parse(initInitialVersion)
	if err != nil {
		return &usageError{err}
	}

	data := map[string]interface{}{
		"version":         version.String(),
		"repository_name": gitctx.RepoName(root),
		"tag_template":    config.DefaultTagTemplate,
	}

	files := []struct {
		name     string
		template string
	}{
		{"VERSION", "init/VERSION.hbs"},
		{".semcast.yaml", "init/semcast.yaml.hbs"},
	}

	ui := newConsole(cmd)
	for _, f := range files {
		tpl, ok := assets.GetTemplate(f.template)
		if !ok {
			return fmt.Errorf("embedded template %s missing", f.template)
		}
		content, err := raymond.Render(string(tpl), data)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", f.template, err)
		}

		target := filepath.Join(root, f.name)
		if initDryRun {
			ui.Result("would write %s:", f.name)
			ui.Result("%s", content)
			continue
		}
		if _, err := os.Stat(target); err == nil && !initForce {
			return fmt.Errorf("%s already exists; use --force to overwrite", f.name)
		}
		if err := safeio.WriteFilePreservePerms(target, []byte(content)); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		ui.Success("created %s", f.name)
	}

	if !initDryRun {
		ui.Info("record starts at %s", version.String())
	}
	return nil
}
