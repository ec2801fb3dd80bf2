/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/fulmenhq/semcast/internal/ops"
	"github.com/fulmenhq/semcast/pkg/buildinfo"
	"github.com/fulmenhq/semcast/pkg/exitcode"
	"github.com/fulmenhq/semcast/pkg/logger"
	"github.com/spf13/cobra"
)

// usageError marks failures caused by the invocation itself (unknown flags,
// wrong arguments) so Execute exits 2 instead of 1.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semcast",
		Short: "Cascade semantic-version synchronization for polyglot repositories",
		Long: `Semcast keeps one root VERSION record and every manifest that declares a
version (Cargo.toml, pyproject.toml, package.json, pom.xml) on the same
semantic version, written as a single all-or-nothing transaction.

Examples:
   semcast bump patch --cascade   # 1.2.3 -> 1.2.4 everywhere
   semcast sync --cascade         # Force manifests to the record's version
   semcast verify --cascade       # Report mismatches, write nothing
   semcast status                 # Per-file sync table`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("quiet", false, "Suppress informational output (results and failures still print)")

	// Wire Cobra's built-in --version using semcast's binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("semcast {{.Version}}\n")

	// Flag mistakes are usage errors, not operation failures
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	// Grouped help by command group (Cascade → Inspect → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.Long)
			cmd.Print(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Cascade Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupCascade) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Inspection Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupInspect) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(bumpCmd)
	cmd.AddCommand(syncCmd)
	cmd.AddCommand(verifyCmd)
	cmd.AddCommand(resetCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(statusCmd)
	cmd.AddCommand(initCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(exitcode.UsageError)
		}
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Parse log level
	var logLevel logger.Level
	switch strings.ToLower(logLevelStr) {
	case "trace":
		logLevel = logger.TraceLevel
	case "debug":
		logLevel = logger.DebugLevel
	case "info":
		logLevel = logger.InfoLevel
	case "warn":
		logLevel = logger.WarnLevel
	case "error":
		logLevel = logger.ErrorLevel
	default:
		logLevel = logger.InfoLevel
	}

	// Initialize logger
	config := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "semcast",
		DryRun:    dryRun,
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			// Best effort: nothing else we can do here
			_ = writeErr
		}
		os.Exit(exitcode.GeneralError)
	}
}
