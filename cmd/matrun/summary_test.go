// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"matrun/internal/matrixfile"
	"matrun/internal/runner"
)

func TestRenderSummaryAllSucceeded(t *testing.T) {
	t.Parallel()

	summary := runner.NewSummary([]matrixfile.EnvName{"a", "b"})
	summary.Add(&runner.RunResult{Env: "a", Status: runner.StatusSucceeded, Duration: 120 * time.Millisecond})
	summary.Add(&runner.RunResult{Env: "b", Status: runner.StatusSucceeded, Duration: 2300 * time.Millisecond})

	out := renderSummary(summary)

	for _, want := range []string{"a", "b", "ok", "all environments succeeded"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderSummary() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryMixedOutcomes(t *testing.T) {
	t.Parallel()

	summary := runner.NewSummary([]matrixfile.EnvName{"good", "bad", "broken"})
	summary.Add(&runner.RunResult{Env: "good", Status: runner.StatusSucceeded})
	summary.Add(&runner.RunResult{Env: "bad", Status: runner.StatusFailed, ExitCode: 2})
	summary.Add(&runner.RunResult{
		Env:      "broken",
		Status:   runner.StatusFailed,
		ExitCode: 1,
		Err:      errors.New("interpreter not found"),
	})

	out := renderSummary(summary)

	for _, want := range []string{"exit 2", "interpreter not found", "2 of 3 environments failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderSummary() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{42 * time.Millisecond, "42ms"},
		{42*time.Millisecond + 400*time.Microsecond, "42ms"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
