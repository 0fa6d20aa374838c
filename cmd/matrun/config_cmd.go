// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"matrun/internal/config"

	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage matrun configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			content, err := config.GenerateTOML(currentConfig())
			if err != nil {
				return err
			}
			fmt.Fprint(cobraCmd.OutOrStdout(), content)
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default config file if none exists",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cobraCmd.OutOrStdout(), "config directory: %s\n", cfgDir)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
