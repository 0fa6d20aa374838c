// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the packaging and release commands",
	Long:  `Run the configured release command sequence (packaging, upload). Configure it under [release] in config.toml.`,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		return runWorkflow(cobraCmd.Context(), "release", "release.commands", currentConfig().Release.Commands, newLogger())
	},
}
