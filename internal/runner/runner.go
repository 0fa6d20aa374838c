// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"matrun/internal/matrixfile"
	"matrun/internal/provision"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkDir is the scratch root for per-environment contexts.
const DefaultWorkDir = ".matrun"

// Runner executes environments against a Provisioner. The zero value is not
// usable; construct with New.
type Runner struct {
	// Provisioner creates each environment's isolated context.
	Provisioner provision.Provisioner
	// WorkDir is the scratch root; each environment gets WorkDir/<name>.
	WorkDir string
	// Parallel is the number of environments run concurrently. Values below
	// 2 mean sequential execution.
	Parallel int
	// Stream mirrors command output to Stdout/Stderr while it is captured.
	Stream bool
	// Stdout and Stderr receive streamed output when Stream is set.
	Stdout io.Writer
	// Stderr receives streamed command stderr when Stream is set.
	Stderr io.Writer
	// Logger receives run progress. Nil disables logging.
	Logger *log.Logger
}

// New creates a Runner with the default scratch directory.
func New(p provision.Provisioner, logger *log.Logger) *Runner {
	return &Runner{
		Provisioner: p,
		WorkDir:     DefaultWorkDir,
		Logger:      logger,
	}
}

// RunMatrix runs every given environment and returns the aggregated summary.
// Environment failures never abort the other environments; the only error
// returned is context cancellation. Environments run sequentially unless
// Parallel says otherwise — outcomes are identical either way, since
// environments share no state.
func (r *Runner) RunMatrix(ctx context.Context, defs []*matrixfile.EnvironmentDefinition, posargs []string) (*Summary, error) {
	order := make([]matrixfile.EnvName, len(defs))
	for i, def := range defs {
		order[i] = def.Name
	}
	summary := NewSummary(order)

	if r.Parallel > 1 && len(defs) > 1 {
		results := make([]*RunResult, len(defs))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.Parallel)
		for i, def := range defs {
			g.Go(func() error {
				results[i] = r.RunEnvironment(gctx, def, posargs)
				return gctx.Err()
			})
		}
		err := g.Wait()

		for _, result := range results {
			if result != nil {
				summary.Add(result)
			}
		}
		if err != nil {
			return summary, err
		}
		return summary, nil
	}

	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Add(r.RunEnvironment(ctx, def, posargs))
	}
	return summary, nil
}

// RunEnvironment provisions and executes one environment, returning its
// terminal result. The command sequence stops at the first failing command.
func (r *Runner) RunEnvironment(ctx context.Context, def *matrixfile.EnvironmentDefinition, posargs []string) *RunResult {
	start := time.Now()
	result := &RunResult{Env: def.Name, Status: StatusPending}

	defer func() {
		result.Duration = time.Since(start)
	}()

	result.Status = StatusProvisioning
	if r.Logger != nil {
		r.Logger.Info("provisioning", "env", def.Name)
	}

	pctx, err := r.Provisioner.Provision(ctx, def, filepath.Join(r.WorkDir, string(def.Name)))
	if err != nil {
		result.Status = StatusFailed
		result.ExitCode = 1
		result.Err = err
		return result
	}
	if pctx.Cleanup != nil {
		defer pctx.Cleanup()
	}

	result.Status = StatusExecuting

	var stdout, stderr bytes.Buffer
	outW := io.Writer(&stdout)
	errW := io.Writer(&stderr)
	if r.Stream && r.Stdout != nil {
		outW = io.MultiWriter(&stdout, r.Stdout)
	}
	if r.Stream && r.Stderr != nil {
		errW = io.MultiWriter(&stderr, r.Stderr)
	}

	for _, command := range def.Commands {
		if r.Logger != nil {
			r.Logger.Debug("running command", "env", def.Name, "command", string(command))
		}

		code, err := runCommand(ctx, def, pctx, command, posargs, outW, errW)
		if err != nil {
			result.Status = StatusFailed
			result.ExitCode = code
			result.Err = err
			result.Output = stdout.String()
			result.ErrOutput = stderr.String()
			return result
		}
		if !code.IsSuccess() {
			// A non-zero exit is a normal failure outcome, not an error.
			result.Status = StatusFailed
			result.ExitCode = code
			result.Output = stdout.String()
			result.ErrOutput = stderr.String()
			return result
		}
	}

	result.Status = StatusSucceeded
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}
