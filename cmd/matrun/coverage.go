// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"

	"matrun/internal/issue"

	"github.com/spf13/cobra"
)

var (
	coverageCmd = &cobra.Command{
		Use:   "coverage",
		Short: "Run the test suite with coverage reporting",
		Long:  `Run the configured coverage command sequence. The report directory is a disposable cache removed by 'matrun clean'.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runWorkflow(cobraCmd.Context(), "coverage", "coverage.commands", currentConfig().Coverage.Commands, newLogger())
		},
	}

	viewCoverageCmd = &cobra.Command{
		Use:   "view-coverage",
		Short: "Open the coverage report",
		RunE: func(_ *cobra.Command, _ []string) error {
			index := filepath.Join(currentConfig().Coverage.OutputDir, "index.html")
			if _, err := os.Stat(index); err != nil {
				return issue.NewErrorContext().
					WithOperation("open coverage report").
					WithResource(index).
					WithSuggestion("Generate the report first with 'matrun coverage'").
					Wrap(err).
					BuildError()
			}
			return openInBrowser(index)
		},
	}
)
