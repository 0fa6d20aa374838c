// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleDocument = `
[matrix]
envlist = ["py311", "py311-eventlet", "docs"]

[env.py311]
interpreter = "python3.11"
deps = ["pytest>=7", "attrs"]
commands = ["pytest {posargs}"]

[env.py311-eventlet]
base = "py311"
deps = ["eventlet"]

[env.docs]
deps = ["sphinx"]
commands = ["sphinx-build docs build/docs"]
`

func TestParseSampleDocument(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	wantEnvlist := []EnvName{"py311", "py311-eventlet", "docs"}
	got := m.Envlist()
	if len(got) != len(wantEnvlist) {
		t.Fatalf("Envlist() = %v, want %v", got, wantEnvlist)
	}
	for i, name := range wantEnvlist {
		if got[i] != name {
			t.Errorf("Envlist()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestParseBaseComposition(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	def, ok := m.Lookup("py311-eventlet")
	if !ok {
		t.Fatal("Lookup(py311-eventlet) not found")
	}

	if def.Interpreter != "python3.11" {
		t.Errorf("Interpreter = %q, want inherited %q", def.Interpreter, "python3.11")
	}
	if len(def.Commands) != 1 || def.Commands[0] != "pytest {posargs}" {
		t.Errorf("Commands = %v, want inherited pytest command", def.Commands)
	}

	// Base deps come first, local deps are appended after.
	wantDeps := []string{"pytest>=7", "attrs", "eventlet"}
	if len(def.Deps) != len(wantDeps) {
		t.Fatalf("Deps = %v, want %v", def.Deps, wantDeps)
	}
	for i, want := range wantDeps {
		if def.Deps[i].String() != want {
			t.Errorf("Deps[%d] = %q, want %q", i, def.Deps[i], want)
		}
	}
}

func TestParseBaseEnvMerge(t *testing.T) {
	t.Parallel()

	doc := `
[matrix]
envlist = ["derived"]

[env.root]
commands = ["true"]
env = { A = "base", B = "base" }

[env.derived]
base = "root"
env = { B = "local", C = "local" }
`
	m, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	def, _ := m.Lookup("derived")
	want := map[string]string{"A": "base", "B": "local", "C": "local"}
	for k, v := range want {
		if def.Env[k] != v {
			t.Errorf("Env[%q] = %q, want %q", k, def.Env[k], v)
		}
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "malformed TOML",
			doc:  `[matrix` + "\n",
		},
		{
			name: "empty envlist",
			doc: `
[matrix]
envlist = []
`,
		},
		{
			name: "envlist references undeclared environment",
			doc: `
[matrix]
envlist = ["docs"]
`,
		},
		{
			name: "duplicate envlist entry",
			doc: `
[matrix]
envlist = ["a", "a"]

[env.a]
commands = ["true"]
`,
		},
		{
			name: "envlist environment without commands",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
deps = ["pytest"]
`,
		},
		{
			name: "unparseable dependency specifier",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
deps = [">=nonsense"]
commands = ["true"]
`,
		},
		{
			name: "dangling base reference",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
base = "missing"
commands = ["true"]
`,
		},
		{
			name: "base reference cycle",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
base = "b"
commands = ["true"]

[env.b]
base = "a"
`,
		},
		{
			name: "self base reference",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
base = "a"
commands = ["true"]
`,
		},
		{
			name: "invalid environment name",
			doc: `
[matrix]
envlist = ["ok"]

[env.ok]
commands = ["true"]

[env."-bad"]
commands = ["true"]
`,
		},
		{
			name: "unterminated quote in command",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
commands = ["echo 'unterminated"]
`,
		},
		{
			name: "unknown key",
			doc: `
[matrix]
envlist = ["a"]

[env.a]
commands = ["true"]
dependencies = ["typo"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() succeeded, want ConfigError")
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("error does not wrap ErrConfig: %v", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error is not a *ConfigError: %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "matrix.toml"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Load() of missing file = %v, want ConfigError", err)
	}
}

func TestLoadReportsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "matrix.toml")
	if err := os.WriteFile(path, []byte("[matrix\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() = %v, want *ConfigError", err)
	}
	if cfgErr.Path != path {
		t.Errorf("ConfigError.Path = %q, want %q", cfgErr.Path, path)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	t.Run("empty selection means envlist", func(t *testing.T) {
		t.Parallel()

		defs, err := m.Select(nil)
		if err != nil {
			t.Fatalf("Select(nil) error: %v", err)
		}
		if len(defs) != 3 {
			t.Errorf("len(defs) = %d, want 3", len(defs))
		}
	})

	t.Run("subset preserves order", func(t *testing.T) {
		t.Parallel()

		defs, err := m.Select([]EnvName{"docs", "py311"})
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if defs[0].Name != "docs" || defs[1].Name != "py311" {
			t.Errorf("Select() order = %v", []EnvName{defs[0].Name, defs[1].Name})
		}
	})

	t.Run("undeclared name", func(t *testing.T) {
		t.Parallel()

		_, err := m.Select([]EnvName{"nope"})
		if !errors.Is(err, ErrConfig) {
			t.Errorf("Select(nope) = %v, want ConfigError", err)
		}
	})

	t.Run("duplicate selection", func(t *testing.T) {
		t.Parallel()

		_, err := m.Select([]EnvName{"docs", "docs"})
		if !errors.Is(err, ErrConfig) {
			t.Errorf("Select(docs, docs) = %v, want ConfigError", err)
		}
	})
}
