/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/semcast/internal/gitctx"
	"github.com/fulmenhq/semcast/pkg/config"
	"github.com/fulmenhq/semcast/pkg/console"
	"github.com/fulmenhq/semcast/pkg/engine"
	"github.com/fulmenhq/semcast/pkg/manifest"
	"github.com/fulmenhq/semcast/pkg/safeio"
)

// operation bundles what every tree command needs: the resolved root, the
// loaded configuration, a ready engine, and the console for user output.
type operation struct {
	root string
	cfg  *config.Config
	eng  *engine.Engine
	ui   *console.Console
	opts engine.Options
}

// newOperation resolves the --root flag, loads the optional .semcast.yaml,
// and builds the engine. A non-empty tagTemplate overrides the configured
// one (the bump command's --tag-template flag).
func newOperation(cmd *cobra.Command, tagTemplate string) (*operation, error) {
	root, err := resolveRoot(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	registry := manifest.NewRegistry()
	if err := registry.Filter(cfg.Manifests.Only, cfg.Manifests.Exclude); err != nil {
		return nil, err
	}

	tmpl := cfg.TagTemplate
	if tagTemplate != "" {
		tmpl = tagTemplate
	}

	eng := engine.New(root, engine.Config{
		Registry:     registry,
		ExtraIgnores: cfg.Ignore,
		TagTemplate:  tmpl,
		RepoName:     gitctx.RepoName(root),
	})

	cascade, _ := cmd.Flags().GetBool("cascade")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return &operation{
		root: root,
		cfg:  cfg,
		eng:  eng,
		ui:   newConsole(cmd),
		opts: engine.Options{Cascade: cascade, DryRun: dryRun},
	}, nil
}

// resolveRoot cleans and absolutizes the --root flag. Traversal segments are
// rejected rather than resolved; the engine receives an explicit root instead
// of inheriting ambient working-directory state.
func resolveRoot(cmd *cobra.Command) (string, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	if rootFlag == "" {
		rootFlag = "."
	}
	cleaned, err := safeio.CleanUserPath(rootFlag)
	if err != nil {
		return "", &usageError{err}
	}
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// newConsole builds the command's console from the persistent output flags.
func newConsole(cmd *cobra.Command) *console.Console {
	noColor, _ := cmd.Flags().GetBool("no-color")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return console.New(console.Options{
		NoColor: noColor,
		Quiet:   quiet,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	})
}

// addTreeFlags attaches the flags shared by every command that operates on a
// repository tree.
func addTreeFlags(cmd *cobra.Command) {
	cmd.Flags().String("root", ".", "Repository root to operate on")
	cmd.Flags().Bool("cascade", false, "Discover manifests recursively across the whole tree")
}

// addWriteFlags attaches the flags shared by the mutating commands.
func addWriteFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Stage and report changes without writing")
}

// reportChanges prints the per-file rewrite list. For dry runs the list is
// the command's primary output and survives --quiet.
func (op *operation) reportChanges(out *engine.Outcome) {
	for _, c := range out.Changes {
		if out.DryRun {
			op.ui.Result("  %s: %s -> %s", c.RelPath, c.OldVersion, c.NewVersion)
		} else {
			op.ui.Info("  %s: %s -> %s", c.RelPath, c.OldVersion, c.NewVersion)
		}
	}
}

// exactArgs wraps cobra's validator so argument mistakes carry the usage
// exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// maximumArgs is exactArgs' sibling for commands with optional positionals.
func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}
