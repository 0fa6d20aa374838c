// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"matrun/internal/matrixfile"
)

func TestHostProvisionerIsEmpty(t *testing.T) {
	t.Parallel()

	env := &matrixfile.EnvironmentDefinition{Name: "py311"}
	pctx, err := HostProvisioner{}.Provision(context.Background(), env, t.TempDir())
	if err != nil {
		t.Fatalf("Provision() error: %v", err)
	}
	if pctx.BinDir != "" || pctx.Root != "" {
		t.Errorf("host context should be empty, got %+v", pctx)
	}
}

func TestVenvProvisionerMissingInterpreter(t *testing.T) {
	t.Parallel()

	env := &matrixfile.EnvironmentDefinition{Name: "py999", Interpreter: "definitely-not-a-real-python-999"}
	p := NewVenvProvisioner("", nil)

	_, err := p.Provision(context.Background(), env, t.TempDir())
	if err == nil {
		t.Fatal("Provision() succeeded with a missing interpreter")
	}
	if !errors.Is(err, ErrProvision) {
		t.Errorf("error does not wrap ErrProvision: %v", err)
	}

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("error is not a *Error: %v", err)
	}
	if provErr.Env != "py999" {
		t.Errorf("Error.Env = %q, want %q", provErr.Env, "py999")
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := &Error{
		Env:    "docs",
		Detail: "interpreter python3.11 not found",
		Cause:  errors.New("executable file not found in $PATH"),
	}

	got := err.Error()
	for _, want := range []string{`environment "docs"`, "python3.11 not found", "$PATH"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestVenvProvisionerCreatesVirtualEnv(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}

	dir := filepath.Join(t.TempDir(), "venv")
	env := &matrixfile.EnvironmentDefinition{Name: "py3"}
	p := NewVenvProvisioner("", nil)

	pctx, err := p.Provision(context.Background(), env, dir)
	if err != nil {
		t.Fatalf("Provision() error: %v", err)
	}

	if _, statErr := os.Stat(pctx.BinDir); statErr != nil {
		t.Errorf("BinDir %q does not exist: %v", pctx.BinDir, statErr)
	}
	if pctx.Env["VIRTUAL_ENV"] == "" {
		t.Error("VIRTUAL_ENV is not set in the provisioned context")
	}
	if !filepath.IsAbs(pctx.Root) {
		t.Errorf("Root %q is not absolute", pctx.Root)
	}

	// Provisioning the same directory again reuses it.
	if _, err := p.Provision(context.Background(), env, dir); err != nil {
		t.Errorf("re-provisioning existing venv failed: %v", err)
	}
}

func TestVenvProvisionerInterpreterPrecedence(t *testing.T) {
	t.Parallel()

	// The environment's own interpreter wins over the provisioner fallback;
	// both missing names surface the environment-level one in the error.
	env := &matrixfile.EnvironmentDefinition{Name: "a", Interpreter: "missing-env-interpreter"}
	p := NewVenvProvisioner("missing-fallback-interpreter", nil)

	_, err := p.Provision(context.Background(), env, t.TempDir())
	if err == nil {
		t.Fatal("Provision() succeeded with a missing interpreter")
	}
	if !strings.Contains(err.Error(), "missing-env-interpreter") {
		t.Errorf("error does not name the environment interpreter: %v", err)
	}
}
