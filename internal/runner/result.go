// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"time"

	"matrun/internal/matrixfile"
)

// Environment run states. Every run starts Pending and ends in exactly one of
// the two terminal states.
const (
	StatusPending      Status = "pending"
	StatusProvisioning Status = "provisioning"
	StatusExecuting    Status = "executing"
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
)

type (
	// Status is an environment run's position in its lifecycle.
	Status string

	// RunResult is the outcome of one environment's run. It is created when
	// the environment's command sequence finishes or fails and is owned by
	// the aggregating Summary afterwards.
	RunResult struct {
		// Env is the environment identifier.
		Env matrixfile.EnvName
		// Status is the terminal state (Succeeded or Failed).
		Status Status
		// ExitCode is the exit code of the failing command, 0 on success.
		ExitCode ExitCode
		// Output is the captured stdout of the command sequence.
		Output string
		// ErrOutput is the captured stderr of the command sequence.
		ErrOutput string
		// Err is set for infrastructure failures only: provisioning errors
		// and commands that could not be invoked at all. A command that ran
		// and exited non-zero is a normal Failed result with a nil Err.
		Err error
		// Duration is the wall-clock time of the run, provisioning included.
		Duration time.Duration
	}

	// Summary aggregates one RunResult per environment of a matrix run,
	// preserving declaration order for display.
	Summary struct {
		order   []matrixfile.EnvName
		results map[matrixfile.EnvName]*RunResult
	}
)

// String returns the lowercase state name.
func (s Status) String() string { return string(s) }

// IsTerminal returns true for the two end states of an environment run.
func (s Status) IsTerminal() bool { return s == StatusSucceeded || s == StatusFailed }

// Succeeded returns true when the run ended in StatusSucceeded.
func (r *RunResult) Succeeded() bool { return r.Status == StatusSucceeded }

// NewSummary creates an empty summary for the given environment order.
func NewSummary(order []matrixfile.EnvName) *Summary {
	return &Summary{
		order:   order,
		results: make(map[matrixfile.EnvName]*RunResult, len(order)),
	}
}

// Add records an environment's result. The environment must be part of the
// summary's declared order.
func (s *Summary) Add(result *RunResult) {
	s.results[result.Env] = result
}

// Names returns the environment identifiers in declaration order.
func (s *Summary) Names() []matrixfile.EnvName {
	out := make([]matrixfile.EnvName, len(s.order))
	copy(out, s.order)
	return out
}

// Result returns the recorded result for name, or false when none exists.
func (s *Summary) Result(name matrixfile.EnvName) (*RunResult, bool) {
	r, ok := s.results[name]
	return r, ok
}

// Len returns the number of recorded results.
func (s *Summary) Len() int { return len(s.results) }

// Success returns true iff every recorded result succeeded and every declared
// environment has a result.
func (s *Summary) Success() bool {
	if len(s.results) != len(s.order) {
		return false
	}
	for _, r := range s.results {
		if !r.Succeeded() {
			return false
		}
	}
	return true
}
