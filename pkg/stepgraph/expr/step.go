package expr

import (
	"maps"
	"strconv"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

// ChoiceStep returns a step function for a choice task that evaluates
// expression and yields "true" or "false" as the branch key.
//
// The expression sees the run's Vars, overlaid with the keys of the input
// when the input is a map[string]any, plus the input itself as "input".
//
//	route := stepgraph.NewChoice("big-order", expr.ChoiceStep("total > 100")).
//	    When("true", review).
//	    When("false", ship)
func ChoiceStep(expression string, opts ...Option) stepgraph.StepFunc {
	e := New(opts...)
	return func(ctx stepgraph.Context, input any) (any, error) {
		ok, err := e.Evaluate(expression, scope(ctx, input))
		if err != nil {
			return nil, err
		}
		return strconv.FormatBool(ok), nil
	}
}

func scope(ctx stepgraph.Context, input any) map[string]any {
	vars := make(map[string]any)
	if ctx != nil {
		maps.Copy(vars, ctx.Vars())
	}
	if m, ok := input.(map[string]any); ok {
		maps.Copy(vars, m)
	}
	vars["input"] = input
	return vars
}
