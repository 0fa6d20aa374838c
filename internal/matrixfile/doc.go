// SPDX-License-Identifier: MPL-2.0

// Package matrixfile parses and validates the declarative environment matrix
// document (matrix.toml). The document declares named environments, each with
// an interpreter, an ordered dependency list, and an ordered command sequence,
// plus a top-level envlist naming the environments a default run covers.
//
// Environments may reference a base environment for explicit composition:
// the derived environment inherits the base's interpreter and commands when
// it does not set its own, and appends its dependencies after the base's.
package matrixfile
