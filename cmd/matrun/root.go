// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for matrun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"matrun/internal/config"
	"matrun/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// matrixFile overrides the matrix document path
	matrixFile string

	// appConfig is the loaded global configuration, available to all subcommands.
	appConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "matrun",
		Short: "An environment matrix test runner",
		Long: TitleStyle.Render("matrun") + SubtitleStyle.Render(" - An environment matrix test runner") + `

matrun runs a project's test or build command sequence across a matrix
of isolated environments, each with its own interpreter and dependency
set, and reports one result per environment.

Environments are declared in a 'matrix.toml' file; each may build on a
base environment, add dependencies, and override commands.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Declare environments in matrix.toml
  2. Run the whole matrix with: matrun test-all
  3. Run a quick host-side check with: matrun test

` + SubtitleStyle.Render("Examples:") + `
  matrun test-all                Run every environment in envlist
  matrun test-all --env py311    Run a single environment
  matrun test -- -k smoke        Pass extra arguments to the test runner
  matrun dev-env --dir .venv     Provision a development environment
  matrun clean                   Delete docs and coverage build output`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/matrun/config.toml)")
	rootCmd.PersistentFlags().StringVar(&matrixFile, "matrix-file", "", "matrix document (default is matrix.toml)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(testAllCmd)
	rootCmd.AddCommand(devEnvCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(viewDocCmd)
	rootCmd.AddCommand(uploadDocCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(viewCoverageCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling. Interrupt cancels the
	// command context, which propagates to in-flight environments.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
