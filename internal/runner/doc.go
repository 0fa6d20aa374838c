// SPDX-License-Identifier: MPL-2.0

// Package runner executes the environment matrix: it provisions each
// environment's isolated context, runs the environment's command sequence in
// order, and aggregates per-environment results into a run summary.
//
// Environments are mutually independent. A failing environment never aborts
// the others; only the aggregate status reflects it. Each environment moves
// through pending, provisioning, executing, and ends succeeded or failed,
// with no retries.
package runner
