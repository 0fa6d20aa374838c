// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"matrun/internal/matrixfile"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// matrixFromOutcomes builds one environment per outcome: true environments
// run "true", false ones run "false".
func matrixFromOutcomes(outcomes []bool) []*matrixfile.EnvironmentDefinition {
	defs := make([]*matrixfile.EnvironmentDefinition, len(outcomes))
	for i, ok := range outcomes {
		command := "true"
		if !ok {
			command = "false"
		}
		defs[i] = env(fmt.Sprintf("env%d", i), command)
	}
	return defs
}

func TestRunMatrixProperties(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("properties rely on POSIX true/false")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	// MaxSize is an exclusive bound; keep generated slices within the 1..6
	// range the SuchThat filter accepts so gopter does not give up discarding.
	parameters.MaxSize = 7

	properties := gopter.NewProperties(parameters)

	outcomeGen := gen.SliceOf(gen.Bool()).SuchThat(func(v []bool) bool {
		return len(v) >= 1 && len(v) <= 6
	})

	properties.Property("aggregate success iff every environment succeeds", prop.ForAll(
		func(outcomes []bool) bool {
			summary, err := hostRunner().RunMatrix(context.Background(), matrixFromOutcomes(outcomes), nil)
			if err != nil {
				return false
			}

			allOK := true
			for _, ok := range outcomes {
				allOK = allOK && ok
			}
			return summary.Success() == allOK
		},
		outcomeGen,
	))

	properties.Property("exactly one result per declared environment", prop.ForAll(
		func(outcomes []bool) bool {
			defs := matrixFromOutcomes(outcomes)
			summary, err := hostRunner().RunMatrix(context.Background(), defs, nil)
			if err != nil {
				return false
			}

			if summary.Len() != len(defs) {
				return false
			}
			for _, def := range defs {
				if _, ok := summary.Result(def.Name); !ok {
					return false
				}
			}
			return true
		},
		outcomeGen,
	))

	properties.Property("each environment's result reflects only its own commands", prop.ForAll(
		func(outcomes []bool) bool {
			summary, err := hostRunner().RunMatrix(context.Background(), matrixFromOutcomes(outcomes), nil)
			if err != nil {
				return false
			}

			for i, ok := range outcomes {
				result, found := summary.Result(matrixfile.EnvName(fmt.Sprintf("env%d", i)))
				if !found {
					return false
				}
				if result.Succeeded() != ok {
					return false
				}
			}
			return true
		},
		outcomeGen,
	))

	properties.TestingRun(t)
}
