// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidDependencySpec is the sentinel error wrapped by InvalidDependencySpecError.
var ErrInvalidDependencySpec = errors.New("invalid dependency specifier")

// depSpecPattern matches "name", "name==1.2", "name >= 1.2" and the other
// comparison operators. The version part is free-form beyond being non-empty.
var depSpecPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:(==|!=|~=|>=|<=|>|<)\s*(\S+))?$`)

type (
	// DependencySpec is a single dependency of an environment: a package name
	// plus an optional version constraint (operator + version).
	DependencySpec struct {
		// Name is the package name.
		Name string
		// Operator is the comparison operator ("==", ">=", ...), empty when
		// the spec is unconstrained.
		Operator string
		// Version is the constraint version, empty when unconstrained.
		Version string
	}

	// InvalidDependencySpecError is returned when a dependency specifier
	// string cannot be parsed.
	InvalidDependencySpecError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidDependencySpecError) Error() string {
	return fmt.Sprintf("invalid dependency specifier %q", e.Value)
}

// Unwrap returns ErrInvalidDependencySpec so callers can use errors.Is for programmatic detection.
func (e *InvalidDependencySpecError) Unwrap() error { return ErrInvalidDependencySpec }

// ParseDependencySpec parses a specifier string like "pytest" or "attrs>=23.1".
func ParseDependencySpec(s string) (DependencySpec, error) {
	match := depSpecPattern.FindStringSubmatch(s)
	if match == nil {
		return DependencySpec{}, &InvalidDependencySpecError{Value: s}
	}
	return DependencySpec{Name: match[1], Operator: match[2], Version: match[3]}, nil
}

// String reassembles the canonical specifier form without interior whitespace.
func (d DependencySpec) String() string {
	if d.Operator == "" {
		return d.Name
	}
	return d.Name + d.Operator + d.Version
}

// IsConstrained returns true when the spec carries a version constraint.
func (d DependencySpec) IsConstrained() bool { return d.Operator != "" }
