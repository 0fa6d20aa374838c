// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"matrun/internal/config"
	"matrun/internal/issue"
	"matrun/internal/matrixfile"
	"matrun/internal/provision"
	runpkg "matrun/internal/runner"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger; verbose mode lowers the level to Debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "matrun",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// matrixFilePath resolves the matrix document path: the --matrix-file flag
// wins over the configured path.
func matrixFilePath() string {
	if matrixFile != "" {
		return matrixFile
	}
	if appConfig != nil && appConfig.MatrixFile != "" {
		return appConfig.MatrixFile
	}
	return matrixfile.DefaultFileName
}

// loadMatrix loads and validates the matrix document, wrapping failures with
// actionable context.
func loadMatrix() (*matrixfile.Matrix, error) {
	path := matrixFilePath()
	m, err := matrixfile.Load(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load matrix file").
			WithResource(path).
			WithSuggestion("Declare environments under [env.<name>] sections").
			WithSuggestion("List the environments to run in matrix.envlist").
			Wrap(err).
			BuildError()
	}
	return m, nil
}

// newMatrixRunner builds the runner used by test-all: isolated virtualenv
// contexts, streaming only in sequential runs so interleaved output from
// parallel environments doesn't garble the terminal. It is a variable so
// tests can substitute a runner without real provisioning.
var newMatrixRunner = func(parallel int, logger *log.Logger) *runpkg.Runner {
	interpreter := ""
	if appConfig != nil {
		interpreter = appConfig.DefaultInterpreter
	}

	r := runpkg.New(provision.NewVenvProvisioner(interpreter, logger), logger)
	r.Parallel = parallel
	r.Stream = parallel <= 1
	r.Stdout = os.Stdout
	r.Stderr = os.Stderr
	return r
}

// hostRunner builds a runner without isolation, used by `test` and the
// docs/coverage/release workflow sequences.
func hostRunner(logger *log.Logger) *runpkg.Runner {
	r := runpkg.New(provision.HostProvisioner{}, logger)
	r.Stream = true
	r.Stdout = os.Stdout
	r.Stderr = os.Stderr
	return r
}

// runWorkflow executes a configured workflow command sequence (docs build,
// coverage, release) on the host and converts a failure into an ExitError.
// configHint names the config key a missing sequence should be declared under.
func runWorkflow(ctx context.Context, name, configHint string, commands []string, logger *log.Logger) error {
	if len(commands) == 0 {
		return issue.NewErrorContext().
			WithOperation("run " + name + " commands").
			WithSuggestion("Configure " + configHint + " in config.toml").
			Wrap(fmt.Errorf("no commands configured")).
			BuildError()
	}

	def := &matrixfile.EnvironmentDefinition{Name: matrixfile.EnvName(name)}
	for _, c := range commands {
		def.Commands = append(def.Commands, matrixfile.CommandLine(c))
	}

	result := hostRunner(logger).RunEnvironment(ctx, def, nil)
	if result.Err != nil {
		return &ExitError{Code: result.ExitCode, Err: result.Err}
	}
	if !result.Succeeded() {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

// openInBrowser opens path with the platform's default opener.
func openInBrowser(path string) error {
	var program string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		program = "open"
	case "windows":
		program = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	default:
		program = "xdg-open"
	}

	opener, err := exec.LookPath(program)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("open browser").
			WithResource(path).
			WithSuggestion("Open the file manually in your browser").
			Wrap(err).
			BuildError()
	}

	return exec.Command(opener, append(args, path)...).Start()
}

// currentConfig returns the loaded configuration, falling back to defaults
// when initialization has not run (e.g. in tests calling helpers directly).
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.DefaultConfig()
}
