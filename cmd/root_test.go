package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestInitializeLogger(t *testing.T) {
	// Test default logger initialization
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().Bool("dry-run", false, "")

	// This should not panic
	initializeLogger(cmd)
}

func TestInitializeLogger_DebugLevel(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "debug", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().Bool("dry-run", false, "")

	initializeLogger(cmd)
}

func TestInitializeLogger_InvalidLevel(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "invalid", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().Bool("dry-run", false, "")

	// Should default to info level
	initializeLogger(cmd)
}

func TestInitializeLogger_JSONOutput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("json", true, "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().Bool("dry-run", false, "")

	initializeLogger(cmd)
}

func TestInitializeLogger_DryRun(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("no-color", false, "")
	cmd.Flags().Bool("dry-run", true, "")

	initializeLogger(cmd)
}

func TestRootCmd_Help(t *testing.T) {
	// Create fresh command instance per test to prevent state pollution
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "semcast") {
		t.Error("Help output should contain 'semcast'")
	}
	for _, section := range []string{"Cascade Commands:", "Inspection Commands:", "Support Commands:"} {
		if !strings.Contains(output, section) {
			t.Errorf("Help output should contain %q", section)
		}
	}
	for _, name := range []string{"bump", "sync", "verify", "reset", "show", "status", "init", "version"} {
		if !strings.Contains(output, name) {
			t.Errorf("Help output should list the %s command", name)
		}
	}
}

func TestRootCmd_VersionFlag(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version failed: %v", err)
	}

	if !strings.Contains(buf.String(), "semcast") {
		t.Errorf("Version output should contain 'semcast': %s", buf.String())
	}
}

func TestRootCmd_InvalidFlagIsUsageError(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	cmd.SetArgs([]string{"--invalid-flag"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Invalid flag should return an error")
	}
	var ue *usageError
	if !errors.As(err, &ue) {
		t.Errorf("expected usage error, got %T: %v", err, err)
	}
}

func TestRootCmd_RejectsTraversalRoot(t *testing.T) {
	_, err := execRoot(t, []string{"show", "--root", "../outside"})
	if err == nil {
		t.Fatal("expected error for traversal in --root")
	}
	var ue *usageError
	if !errors.As(err, &ue) {
		t.Errorf("expected usage error, got %T: %v", err, err)
	}
}

func TestUsageErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &usageError{inner}
	if !errors.Is(err, inner) {
		t.Error("usageError should unwrap to the inner error")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want boom", err.Error())
	}
}
