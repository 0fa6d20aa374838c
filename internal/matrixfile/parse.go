// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"
)

// ErrConfig is the sentinel error wrapped by ConfigError.
var ErrConfig = errors.New("invalid matrix configuration")

type (
	// ConfigError reports a malformed or inconsistent matrix document. It is
	// fatal: the runner does not execute any environment when loading fails.
	ConfigError struct {
		// Path is the document path, when known.
		Path string
		// Detail describes what is wrong.
		Detail string
		// Cause is the underlying parse error, if any.
		Cause error
	}

	// document mirrors the on-disk TOML shape before resolution.
	document struct {
		Matrix matrixSection         `toml:"matrix"`
		Env    map[string]envSection `toml:"env"`
	}

	matrixSection struct {
		Envlist []string `toml:"envlist"`
	}

	envSection struct {
		Base        string            `toml:"base"`
		Interpreter string            `toml:"interpreter"`
		Deps        []string          `toml:"deps"`
		Commands    []string          `toml:"commands"`
		Env         map[string]string `toml:"env"`
	}
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var msg strings.Builder
	msg.WriteString("invalid matrix configuration")
	if e.Path != "" {
		msg.WriteString(" in ")
		msg.WriteString(e.Path)
	}
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

// Unwrap returns ErrConfig so callers can use errors.Is for programmatic detection.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// Load reads and parses the matrix document at path.
// All failures are reported as *ConfigError.
func Load(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Detail: "cannot read matrix file", Cause: err}
	}

	m, err := Parse(data)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates a matrix document. Unknown keys are rejected so
// misspelled sections fail loudly instead of silently dropping configuration.
func Parse(data []byte) (*Matrix, error) {
	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ConfigError{Detail: "malformed TOML", Cause: err}
	}

	if len(doc.Matrix.Envlist) == 0 {
		return nil, &ConfigError{Detail: "matrix.envlist must declare at least one environment"}
	}

	resolver := &baseResolver{sections: doc.Env, resolved: make(map[EnvName]*EnvironmentDefinition)}

	envs := make(map[EnvName]*EnvironmentDefinition, len(doc.Env))
	for rawName := range doc.Env {
		name := EnvName(rawName)
		if isValid, errs := name.IsValid(); !isValid {
			return nil, &ConfigError{Detail: errs[0].Error()}
		}
		def, err := resolver.resolve(name, nil)
		if err != nil {
			return nil, err
		}
		envs[name] = def
	}

	envlist := make([]EnvName, 0, len(doc.Matrix.Envlist))
	seen := make(map[EnvName]bool, len(doc.Matrix.Envlist))
	for _, rawName := range doc.Matrix.Envlist {
		name := EnvName(rawName)
		if seen[name] {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q appears more than once in envlist", name)}
		}
		seen[name] = true

		def, ok := envs[name]
		if !ok {
			return nil, &ConfigError{Detail: fmt.Sprintf("envlist references environment %q but no [env.%s] section is declared", name, name)}
		}
		if len(def.Commands) == 0 {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q is in envlist but resolves to an empty command list", name)}
		}
		envlist = append(envlist, name)
	}

	return &Matrix{envlist: envlist, envs: envs}, nil
}

// baseResolver applies base composition across env sections, detecting
// dangling references and cycles.
type baseResolver struct {
	sections map[string]envSection
	resolved map[EnvName]*EnvironmentDefinition
}

func (r *baseResolver) resolve(name EnvName, chain []EnvName) (*EnvironmentDefinition, error) {
	if def, ok := r.resolved[name]; ok {
		return def, nil
	}

	for _, seen := range chain {
		if seen == name {
			return nil, &ConfigError{Detail: fmt.Sprintf("base reference cycle involving environment %q", name)}
		}
	}

	section, ok := r.sections[string(name)]
	if !ok {
		return nil, &ConfigError{Detail: fmt.Sprintf("environment %q references undeclared base %q", chain[len(chain)-1], name)}
	}

	def := &EnvironmentDefinition{
		Name:        name,
		Interpreter: section.Interpreter,
	}

	var base *EnvironmentDefinition
	if section.Base != "" {
		baseName := EnvName(section.Base)
		if isValid, errs := baseName.IsValid(); !isValid {
			return nil, &ConfigError{Detail: errs[0].Error()}
		}
		var err error
		base, err = r.resolve(baseName, append(chain, name))
		if err != nil {
			return nil, err
		}
		def.Base = baseName
	}

	// Composition: local deps append after the base's; interpreter, commands
	// and env vars fall back to the base when unset locally.
	if base != nil {
		def.Deps = append(def.Deps, base.Deps...)
		if def.Interpreter == "" {
			def.Interpreter = base.Interpreter
		}
	}
	for _, raw := range section.Deps {
		spec, err := ParseDependencySpec(raw)
		if err != nil {
			return nil, &ConfigError{Detail: fmt.Sprintf("environment %q", name), Cause: err}
		}
		def.Deps = append(def.Deps, spec)
	}

	commands := section.Commands
	if len(commands) == 0 && base != nil {
		def.Commands = base.Commands
	} else {
		for _, raw := range commands {
			if err := validateCommandSyntax(raw); err != nil {
				return nil, &ConfigError{Detail: fmt.Sprintf("environment %q has a malformed command %q", name, raw), Cause: err}
			}
			def.Commands = append(def.Commands, CommandLine(raw))
		}
	}

	if base != nil && len(base.Env) > 0 {
		def.Env = make(map[string]string, len(base.Env)+len(section.Env))
		for k, v := range base.Env {
			def.Env[k] = v
		}
	}
	if len(section.Env) > 0 {
		if def.Env == nil {
			def.Env = make(map[string]string, len(section.Env))
		}
		for k, v := range section.Env {
			def.Env[k] = v
		}
	}

	r.resolved[name] = def
	return def, nil
}

// validateCommandSyntax rejects command lines the shell field splitter cannot
// process (unterminated quotes and the like) at load time, before anything runs.
func validateCommandSyntax(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("command is empty")
	}
	_, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	return err
}
