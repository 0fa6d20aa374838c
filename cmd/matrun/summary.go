// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"
	"time"

	"matrun/internal/runner"
)

// renderSummary formats the per-environment outcomes of a matrix run,
// followed by an aggregate line.
func renderSummary(summary *runner.Summary) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("matrix summary"))
	sb.WriteString("\n")

	failed := 0
	for _, name := range summary.Names() {
		result, ok := summary.Result(name)
		if !ok {
			continue
		}

		var outcome string
		switch {
		case result.Succeeded():
			outcome = SuccessStyle.Render("ok")
		case result.Err != nil:
			outcome = ErrorStyle.Render("error") + "  " + result.Err.Error()
			failed++
		default:
			outcome = ErrorStyle.Render(fmt.Sprintf("failed (exit %s)", result.ExitCode))
			failed++
		}

		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			EnvStyle.Render(fmt.Sprintf("%-20s", name)),
			outcome,
			MutedStyle.Render(formatDuration(result.Duration)),
		))
	}

	if failed == 0 {
		sb.WriteString(SuccessStyle.Render("all environments succeeded"))
	} else {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("%d of %d environments failed", failed, summary.Len())))
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatDuration trims durations to a display-friendly precision.
func formatDuration(d time.Duration) string {
	if d >= time.Second {
		return d.Round(100 * time.Millisecond).String()
	}
	return d.Round(time.Millisecond).String()
}
