// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"matrun/internal/issue"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	// viewDocTerm holds the --term flag of view-doc.
	viewDocTerm bool

	docCmd = &cobra.Command{
		Use:   "doc",
		Short: "Build the project documentation",
		Long:  `Run the configured documentation build command sequence. The output directory is a disposable cache removed by 'matrun clean'.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runWorkflow(cobraCmd.Context(), "docs", "docs.commands", currentConfig().Docs.Commands, newLogger())
		},
	}

	viewDocCmd = &cobra.Command{
		Use:   "view-doc",
		Short: "Open the built documentation",
		Long: `Open the built documentation index in the browser. With --term, render
the project README in the terminal instead.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if viewDocTerm {
				return renderReadme(cobraCmd)
			}

			index := filepath.Join(currentConfig().Docs.OutputDir, "index.html")
			if _, err := os.Stat(index); err != nil {
				return issue.NewErrorContext().
					WithOperation("open documentation").
					WithResource(index).
					WithSuggestion("Build the documentation first with 'matrun doc'").
					Wrap(err).
					BuildError()
			}
			return openInBrowser(index)
		},
	}

	uploadDocCmd = &cobra.Command{
		Use:   "upload-doc",
		Short: "Publish the built documentation",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runWorkflow(cobraCmd.Context(), "docs-upload", "docs.upload_commands", currentConfig().Docs.UploadCommands, newLogger())
		},
	}
)

func init() {
	viewDocCmd.Flags().BoolVar(&viewDocTerm, "term", false, "render the README in the terminal instead of opening a browser")
}

// renderReadme renders README.md with glamour for terminal viewing.
func renderReadme(cobraCmd *cobra.Command) error {
	content, err := os.ReadFile("README.md")
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("render documentation").
			WithResource("README.md").
			WithSuggestion("Run from the project root, or open the built docs with 'matrun view-doc'").
			Wrap(err).
			BuildError()
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(string(content))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	fmt.Fprint(cobraCmd.OutOrStdout(), out)
	return nil
}
