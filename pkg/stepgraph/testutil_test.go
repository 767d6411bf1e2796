package stepgraph

import (
	"context"
	"errors"
)

// Helper step functions

// passthrough returns its input unchanged.
func passthrough(_ Context, in any) (any, error) {
	return in, nil
}

// constant returns a step that always yields v.
func constant(v any) StepFunc {
	return func(_ Context, _ any) (any, error) {
		return v, nil
	}
}

// failing returns a step that fails with a Failure described by desc.
func failing(desc string) StepFunc {
	return func(_ Context, _ any) (any, error) {
		return nil, Fail(desc)
	}
}

// failingWith returns a step that fails with err.
func failingWith(err error) StepFunc {
	return func(_ Context, _ any) (any, error) {
		return nil, err
	}
}

// panicking returns a step that panics with v.
func panicking(v any) StepFunc {
	return func(_ Context, _ any) (any, error) {
		panic(v)
	}
}

// recorder collects the inputs seen by tracked steps.
type recorder struct {
	calls  []string
	inputs map[string][]any
}

func newRecorder() *recorder {
	return &recorder{inputs: make(map[string][]any)}
}

// track wraps fn so each call is recorded under name.
func (r *recorder) track(name string, fn StepFunc) StepFunc {
	return func(ctx Context, in any) (any, error) {
		r.calls = append(r.calls, name)
		r.inputs[name] = append(r.inputs[name], in)
		return fn(ctx, in)
	}
}

// activity builds an activity task.
func activity(name string, fn StepFunc, then string, catch ...CatchRule) Task {
	return Task{Name: name, Kind: KindActivity, Fn: fn, Then: then, Catch: catch}
}

// choice builds a choice task.
func choice(name string, fn StepFunc, rules ...ChoiceRule) Task {
	return Task{Name: name, Kind: KindChoice, Fn: fn, Choices: rules}
}

// labels returns the transition labels of a result.
func labels(r *Result) []string {
	out := make([]string, len(r.Transitions))
	for i, t := range r.Transitions {
		out[i] = t.Label
	}
	return out
}

// asWorkflowError unwraps err to *WorkflowError or returns nil.
func asWorkflowError(err error) *WorkflowError {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr
	}
	return nil
}

// testCtx returns a background context.
func testCtx() context.Context {
	return context.Background()
}
