// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists matrun's global tool configuration:
// the matrix file location, the default interpreter, parallelism, and the
// docs/coverage/release workflow command sequences with their output
// directories. Values come from a TOML config file merged over explicit
// defaults; a missing file just means defaults.
package config
