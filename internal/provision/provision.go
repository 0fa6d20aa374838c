// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"matrun/internal/matrixfile"
)

// ErrProvision is the sentinel error wrapped by Error.
var ErrProvision = errors.New("environment provisioning failed")

type (
	// Provisioner prepares an isolated dependency context for one environment.
	// Implementations must not share mutable state between environments: each
	// environment owns its context exclusively for the duration of its run.
	Provisioner interface {
		// Provision creates the isolated context for env rooted at dir.
		// Cleanup of transient artifacts is the caller's responsibility via
		// the returned Context's Cleanup function.
		Provision(ctx context.Context, env *matrixfile.EnvironmentDefinition, dir string) (*Context, error)
	}

	// Context describes a provisioned execution context.
	Context struct {
		// Root is the context's root directory. Empty for host contexts.
		Root string

		// BinDir contains the context's executables; it is prepended to PATH
		// and searched first when resolving a command's program. Empty for
		// host contexts.
		BinDir string

		// Env is extra environment variables commands run with.
		Env map[string]string

		// Cleanup removes transient provisioning artifacts. May be nil.
		// It does not remove the context itself, which is reusable.
		Cleanup func()
	}

	// Error reports that an environment's isolated context could not be
	// created. It is fatal for that environment only.
	Error struct {
		// Env is the environment whose provisioning failed.
		Env matrixfile.EnvName
		// Detail describes the failing step.
		Detail string
		// Cause is the underlying error, if any.
		Cause error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "failed to provision environment %q", e.Env)
	if e.Detail != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Detail)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns ErrProvision so callers can use errors.Is for programmatic detection.
func (e *Error) Unwrap() error { return ErrProvision }

// HostProvisioner runs commands directly in the invoking process's
// environment, with no isolation. It is used by the plain `test` subcommand
// and as a stand-in wherever isolation is not wanted.
type HostProvisioner struct{}

// Provision returns an empty context: no PATH override, no extra env.
func (HostProvisioner) Provision(_ context.Context, _ *matrixfile.EnvironmentDefinition, _ string) (*Context, error) {
	return &Context{}, nil
}
