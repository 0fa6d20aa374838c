// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"matrun/internal/matrixfile"
	"matrun/internal/provision"

	"mvdan.cc/sh/v3/shell"
)

// PosargsToken is the placeholder that expands to the invocation's extra
// arguments inside a command line.
const PosargsToken = "{posargs}"

// ErrCommandExecution is the sentinel error wrapped by CommandExecutionError.
var ErrCommandExecution = errors.New("command could not be invoked")

// CommandExecutionError reports a declared command that could not be invoked
// at all (missing executable, unsplittable command line). It is distinct from
// a command that ran and exited non-zero, which is a normal failure result.
type CommandExecutionError struct {
	// Env is the environment the command belongs to.
	Env matrixfile.EnvName
	// Command is the declared command line.
	Command matrixfile.CommandLine
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("environment %q: cannot invoke command %q: %v", e.Env, e.Command, e.Cause)
}

// Unwrap returns ErrCommandExecution so callers can use errors.Is for programmatic detection.
func (e *CommandExecutionError) Unwrap() error { return ErrCommandExecution }

// splitCommand expands a declared command line into argv using POSIX
// field-splitting rules, then splices the positional arguments in place of
// the {posargs} token. Without posargs the token disappears.
func splitCommand(command matrixfile.CommandLine, posargs []string) ([]string, error) {
	fields, err := shell.Fields(string(command), nil)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(fields)+len(posargs))
	for _, field := range fields {
		if field == PosargsToken {
			argv = append(argv, posargs...)
			continue
		}
		argv = append(argv, field)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command expands to no arguments")
	}
	return argv, nil
}

// resolveProgram locates argv[0], preferring the provisioned context's bin
// directory over PATH so an environment's own tools shadow the host's.
func resolveProgram(name string, pctx *provision.Context) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return exec.LookPath(name)
	}

	if pctx.BinDir != "" {
		candidate := filepath.Join(pctx.BinDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return exec.LookPath(name)
}

// buildCommandEnv layers the process environment, the provisioned context's
// variables (with BinDir prepended to PATH), and the environment definition's
// own variables, in increasing precedence.
func buildCommandEnv(def *matrixfile.EnvironmentDefinition, pctx *provision.Context) []string {
	env := os.Environ()

	if pctx.BinDir != "" {
		env = append(env, "PATH="+pctx.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	for k, v := range pctx.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range def.Env {
		env = append(env, k+"="+v)
	}

	return env
}

// runCommand executes one declared command inside the provisioned context,
// writing captured output to stdout/stderr. A non-zero exit is returned as an
// ExitCode with a nil error; a command that cannot start at all is a
// *CommandExecutionError.
func runCommand(
	ctx context.Context,
	def *matrixfile.EnvironmentDefinition,
	pctx *provision.Context,
	command matrixfile.CommandLine,
	posargs []string,
	stdout, stderr io.Writer,
) (ExitCode, error) {
	argv, err := splitCommand(command, posargs)
	if err != nil {
		return 1, &CommandExecutionError{Env: def.Name, Command: command, Cause: err}
	}

	program, err := resolveProgram(argv[0], pctx)
	if err != nil {
		return 1, &CommandExecutionError{Env: def.Name, Command: command, Cause: err}
	}

	cmd := exec.CommandContext(ctx, program, argv[1:]...)
	cmd.Env = buildCommandEnv(def, pctx)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ExitCode(exitErr.ExitCode()), nil
		}
		return 1, &CommandExecutionError{Env: def.Name, Command: command, Cause: err}
	}

	return 0, nil
}
