// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"matrun/internal/matrixfile"

	"github.com/charmbracelet/log"
)

// DefaultInterpreter is used when neither the environment definition nor the
// provisioner configures one.
const DefaultInterpreter = "python3"

// VenvProvisioner provisions environments as Python virtual environments:
// it locates the environment's interpreter, creates a venv at the target
// directory, and installs the declared dependencies with the venv's pip.
type VenvProvisioner struct {
	// Interpreter is the fallback interpreter for environments that do not
	// declare their own. Empty means DefaultInterpreter.
	Interpreter string
	// Logger receives provisioning progress. Nil disables logging.
	Logger *log.Logger
}

// NewVenvProvisioner creates a VenvProvisioner with the given fallback interpreter.
func NewVenvProvisioner(interpreter string, logger *log.Logger) *VenvProvisioner {
	return &VenvProvisioner{Interpreter: interpreter, Logger: logger}
}

// Provision creates (or reuses) the virtual environment at dir and installs
// the environment's dependencies into it.
func (p *VenvProvisioner) Provision(ctx context.Context, env *matrixfile.EnvironmentDefinition, dir string) (*Context, error) {
	interpreter := env.Interpreter
	if interpreter == "" {
		interpreter = p.Interpreter
	}
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}

	interpreterPath, err := exec.LookPath(interpreter)
	if err != nil {
		return nil, &Error{Env: env.Name, Detail: "interpreter " + interpreter + " not found", Cause: err}
	}

	if p.Logger != nil {
		p.Logger.Debug("creating virtual environment", "env", env.Name, "interpreter", interpreterPath, "dir", dir)
	}

	if err := p.runTool(ctx, env, interpreterPath, "-m", "venv", dir); err != nil {
		return nil, err
	}

	binDir := filepath.Join(dir, "bin")
	if runtime.GOOS == "windows" {
		binDir = filepath.Join(dir, "Scripts")
	}

	if len(env.Deps) > 0 {
		pip := filepath.Join(binDir, "pip")
		args := []string{"install"}
		for _, dep := range env.Deps {
			args = append(args, dep.String())
		}
		if p.Logger != nil {
			p.Logger.Debug("installing dependencies", "env", env.Name, "count", len(env.Deps))
		}
		if err := p.runTool(ctx, env, pip, args...); err != nil {
			return nil, err
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	return &Context{
		Root:   absDir,
		BinDir: binDir,
		Env:    map[string]string{"VIRTUAL_ENV": absDir},
	}, nil
}

// runTool invokes a provisioning tool and folds a failure into an Error
// carrying the tool's combined output.
func (p *VenvProvisioner) runTool(ctx context.Context, env *matrixfile.EnvironmentDefinition, program string, args ...string) error {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Env = os.Environ()

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		detail := filepath.Base(program) + " failed"
		if output.Len() > 0 {
			detail += ": " + output.String()
		}
		return &Error{Env: env.Name, Detail: detail, Cause: err}
	}
	return nil
}
