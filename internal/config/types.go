// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type (
	// ColorScheme selects the terminal color handling for styled output.
	ColorScheme string

	// Config is matrun's global tool configuration.
	Config struct {
		// MatrixFile is the matrix document path, relative to the working
		// directory unless absolute.
		MatrixFile string `mapstructure:"matrix_file" toml:"matrix_file"`
		// DefaultInterpreter provisions environments that do not declare an
		// interpreter of their own.
		DefaultInterpreter string `mapstructure:"default_interpreter" toml:"default_interpreter"`
		// Parallel is how many environments run concurrently; 1 means
		// sequential.
		Parallel int `mapstructure:"parallel" toml:"parallel"`

		Docs     DocsConfig     `mapstructure:"docs" toml:"docs"`
		Coverage CoverageConfig `mapstructure:"coverage" toml:"coverage"`
		Release  ReleaseConfig  `mapstructure:"release" toml:"release"`
		UI       UIConfig       `mapstructure:"ui" toml:"ui"`
	}

	// DocsConfig drives the doc, view-doc and upload-doc subcommands.
	DocsConfig struct {
		// OutputDir is where the docs build lands. It is a disposable cache:
		// clean deletes it wholesale.
		OutputDir string `mapstructure:"output_dir" toml:"output_dir"`
		// Commands is the build command sequence.
		Commands []string `mapstructure:"commands" toml:"commands"`
		// UploadCommands is the publish command sequence.
		UploadCommands []string `mapstructure:"upload_commands" toml:"upload_commands"`
	}

	// CoverageConfig drives the coverage and view-coverage subcommands.
	CoverageConfig struct {
		// OutputDir is where the coverage report lands; disposable, removed
		// by clean.
		OutputDir string `mapstructure:"output_dir" toml:"output_dir"`
		// Commands is the coverage command sequence.
		Commands []string `mapstructure:"commands" toml:"commands"`
	}

	// ReleaseConfig drives the release subcommand.
	ReleaseConfig struct {
		// Commands is the packaging/release command sequence.
		Commands []string `mapstructure:"commands" toml:"commands"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		Verbose     bool        `mapstructure:"verbose" toml:"verbose"`
		ColorScheme ColorScheme `mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the ColorScheme is one of the recognized values,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	}
	return false, []error{fmt.Errorf("%w: %q (must be auto, dark or light)", ErrInvalidColorScheme, c)}
}

// DefaultConfig returns the built-in defaults, matching a conventional
// Python project layout (sphinx docs, pytest coverage, PEP 517 build).
func DefaultConfig() *Config {
	return &Config{
		MatrixFile:         "matrix.toml",
		DefaultInterpreter: "python3",
		Parallel:           1,
		Docs: DocsConfig{
			OutputDir: "build/docs",
			Commands:  []string{"sphinx-build -b html docs build/docs"},
		},
		Coverage: CoverageConfig{
			OutputDir: "build/coverage",
			Commands:  []string{"pytest --cov --cov-report=html:build/coverage"},
		},
		Release: ReleaseConfig{
			Commands: []string{"python3 -m build"},
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate checks constraints the TOML decoder cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.MatrixFile == "" {
		errs = append(errs, fmt.Errorf("matrix_file must not be empty"))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("parallel must be at least 1, got %d", c.Parallel))
	}
	if isValid, fieldErrs := c.UI.ColorScheme.IsValid(); !isValid {
		errs = append(errs, fieldErrs...)
	}
	if c.Docs.OutputDir == "" {
		errs = append(errs, fmt.Errorf("docs.output_dir must not be empty"))
	}
	if c.Coverage.OutputDir == "" {
		errs = append(errs, fmt.Errorf("coverage.output_dir must not be empty"))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
