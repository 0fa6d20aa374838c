// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"matrun/internal/matrixfile"

	"github.com/spf13/cobra"
)

var (
	// testAllParallel holds the --parallel flag of test-all.
	testAllParallel int
	// testAllEnvs holds the repeatable --env flag of test-all.
	testAllEnvs []string
	// testEnv holds the --env flag of test.
	testEnv string

	testCmd = &cobra.Command{
		Use:   "test [-- args...]",
		Short: "Run the test command sequence on the host",
		Long: `Run one environment's command sequence directly on the host, without
provisioning an isolated context. By default the first environment of
envlist runs; --env selects another. Arguments after -- are passed to
the commands in place of the {posargs} token.`,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			m, err := loadMatrix()
			if err != nil {
				return err
			}

			name := matrixfile.EnvName(testEnv)
			if testEnv == "" {
				name = m.Envlist()[0]
			}
			defs, err := m.Select([]matrixfile.EnvName{name})
			if err != nil {
				return err
			}

			logger := newLogger()
			result := hostRunner(logger).RunEnvironment(cobraCmd.Context(), defs[0], args)
			if result.Err != nil {
				return &ExitError{Code: result.ExitCode, Err: result.Err}
			}
			if !result.Succeeded() {
				return &ExitError{Code: result.ExitCode}
			}
			return nil
		},
	}

	testAllCmd = &cobra.Command{
		Use:   "test-all [-- args...]",
		Short: "Run every environment in the matrix",
		Long: `Run the full environment matrix: for each environment in envlist,
provision an isolated context with its dependencies and execute its
command sequence. A failing environment never stops the others; the
exit code is non-zero when any environment failed.

Arguments after -- are passed to the commands in place of the
{posargs} token.`,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			m, err := loadMatrix()
			if err != nil {
				return err
			}

			selection := make([]matrixfile.EnvName, len(testAllEnvs))
			for i, name := range testAllEnvs {
				selection[i] = matrixfile.EnvName(name)
			}
			defs, err := m.Select(selection)
			if err != nil {
				return err
			}

			parallel := testAllParallel
			if parallel == 0 {
				parallel = currentConfig().Parallel
			}

			logger := newLogger()
			summary, err := newMatrixRunner(parallel, logger).RunMatrix(cobraCmd.Context(), defs, args)
			if err != nil {
				return err
			}

			fmt.Fprint(cobraCmd.OutOrStdout(), renderSummary(summary))

			if !summary.Success() {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
)

func init() {
	testCmd.Flags().StringVar(&testEnv, "env", "", "environment to run (default is the first envlist entry)")

	testAllCmd.Flags().IntVar(&testAllParallel, "parallel", 0, "environments to run concurrently (default from config)")
	testAllCmd.Flags().StringArrayVar(&testAllEnvs, "env", nil, "run only the named environment (repeatable)")
}
