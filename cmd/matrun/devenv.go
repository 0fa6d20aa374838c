// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"matrun/internal/matrixfile"
	"matrun/internal/provision"

	"github.com/spf13/cobra"
)

// DefaultDevEnvDir is where dev-env provisions when --dir is not given.
const DefaultDevEnvDir = "env"

var (
	// devEnvDir holds the --dir flag.
	devEnvDir string
	// devEnvName holds the --env flag.
	devEnvName string

	devEnvCmd = &cobra.Command{
		Use:   "dev-env",
		Short: "Provision a development environment",
		Long: `Provision an isolated development environment with an environment's
interpreter and dependencies, without running its commands. By default
the first envlist environment's definition is used and the context is
created at ./` + DefaultDevEnvDir + `.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			m, err := loadMatrix()
			if err != nil {
				return err
			}

			name := matrixfile.EnvName(devEnvName)
			if devEnvName == "" {
				name = m.Envlist()[0]
			}
			def, ok := m.Lookup(name)
			if !ok {
				return &matrixfile.ConfigError{Detail: fmt.Sprintf("environment %q is not declared in the matrix", name)}
			}

			logger := newLogger()
			interpreter := currentConfig().DefaultInterpreter
			provisioner := provision.NewVenvProvisioner(interpreter, logger)

			pctx, err := provisioner.Provision(cobraCmd.Context(), def, devEnvDir)
			if err != nil {
				return err
			}
			if pctx.Cleanup != nil {
				pctx.Cleanup()
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "%s %s\n",
				SuccessStyle.Render("provisioned development environment at"),
				EnvStyle.Render(devEnvDir),
			)
			return nil
		},
	}
)

func init() {
	devEnvCmd.Flags().StringVar(&devEnvDir, "dir", DefaultDevEnvDir, "directory to provision the environment in")
	devEnvCmd.Flags().StringVar(&devEnvName, "env", "", "environment definition to use (default is the first envlist entry)")
}
