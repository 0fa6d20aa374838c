// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultFileName is the matrix document looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "matrix.toml"

var (
	// ErrInvalidEnvName is the sentinel error wrapped by InvalidEnvNameError.
	ErrInvalidEnvName = errors.New("invalid environment name")

	// envNamePattern restricts environment names to a shell- and
	// filesystem-safe alphabet.
	envNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

type (
	// EnvName identifies an environment. Names are unique within a matrix.
	EnvName string

	// InvalidEnvNameError is returned when an EnvName does not match the
	// allowed pattern.
	InvalidEnvNameError struct {
		Value EnvName
	}

	// CommandLine is a single shell-like command string from a commands list.
	// It is split into argv with POSIX field-splitting rules at run time; a
	// literal "{posargs}" token expands to the extra arguments of the
	// invocation.
	CommandLine string

	// EnvironmentDefinition is one fully resolved environment of the matrix:
	// base composition has already been applied. Definitions are immutable
	// after load.
	EnvironmentDefinition struct {
		// Name is the unique environment identifier.
		Name EnvName
		// Base is the environment this definition was composed from, if any.
		// Retained for display; its contents are already merged in.
		Base EnvName
		// Interpreter is the interpreter executable used to provision the
		// environment's isolated context. Empty means the configured default.
		Interpreter string
		// Deps is the ordered dependency list to install during provisioning.
		Deps []DependencySpec
		// Commands is the ordered command sequence to execute. Execution
		// stops at the first failing command.
		Commands []CommandLine
		// Env is extra environment variables set for every command.
		Env map[string]string
	}

	// Matrix is the ordered set of declared environments plus the default
	// envlist. Identifiers are unique; envlist order is the display order.
	Matrix struct {
		envlist []EnvName
		envs    map[EnvName]*EnvironmentDefinition
	}
)

// Error implements the error interface.
func (e *InvalidEnvNameError) Error() string {
	return fmt.Sprintf("invalid environment name %q (must match %s)", e.Value, envNamePattern)
}

// Unwrap returns ErrInvalidEnvName so callers can use errors.Is for programmatic detection.
func (e *InvalidEnvNameError) Unwrap() error { return ErrInvalidEnvName }

// IsValid returns whether the EnvName matches the allowed pattern, and a list
// of validation errors if it does not.
func (n EnvName) IsValid() (bool, []error) {
	if !envNamePattern.MatchString(string(n)) {
		return false, []error{&InvalidEnvNameError{Value: n}}
	}
	return true, nil
}

// String returns the environment name as a plain string.
func (n EnvName) String() string { return string(n) }

// Envlist returns the default environment names in declaration order.
func (m *Matrix) Envlist() []EnvName {
	out := make([]EnvName, len(m.envlist))
	copy(out, m.envlist)
	return out
}

// Lookup returns the resolved definition for name, or false when the
// environment is not declared.
func (m *Matrix) Lookup(name EnvName) (*EnvironmentDefinition, bool) {
	def, ok := m.envs[name]
	return def, ok
}

// Environments returns the resolved definitions of the default envlist in
// declaration order.
func (m *Matrix) Environments() []*EnvironmentDefinition {
	out := make([]*EnvironmentDefinition, 0, len(m.envlist))
	for _, name := range m.envlist {
		out = append(out, m.envs[name])
	}
	return out
}

// Select resolves the given environment names into definitions, preserving
// the given order. An empty selection means the default envlist. A name that
// is not declared, or an environment whose resolved command list is empty,
// yields a *ConfigError.
func (m *Matrix) Select(names []EnvName) ([]*EnvironmentDefinition, error) {
	if len(names) == 0 {
		return m.Environments(), nil
	}

	out := make([]*EnvironmentDefinition, 0, len(names))
	seen := make(map[EnvName]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q selected more than once", name)}
		}
		seen[name] = true

		def, ok := m.envs[name]
		if !ok {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q is not declared in the matrix", name)}
		}
		if len(def.Commands) == 0 {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q has no commands to run", name)}
		}
		out = append(out, def)
	}
	return out, nil
}
