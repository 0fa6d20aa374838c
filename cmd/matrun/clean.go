// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"matrun/internal/runner"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete regenerable build output",
	Long: `Delete the documentation output directory, the coverage report
directory, and the matrix scratch directory. All of them are
regenerable caches.`,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		cfg := currentConfig()

		for _, dir := range []string{cfg.Docs.OutputDir, cfg.Coverage.OutputDir, runner.DefaultWorkDir} {
			if dir == "" {
				continue
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				continue
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove %s: %w", dir, err)
			}
			fmt.Fprintf(cobraCmd.OutOrStdout(), "removed %s\n", EnvStyle.Render(dir))
		}
		return nil
	},
}
