package stepgraph

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/observability"
)

// Run executes tasks from the start task with the given input.
//
// Execution flow:
//  1. Resolve the start task (first flagged Start, else the first task)
//  2. Check for cancellation
//  3. Invoke the current task's step function
//  4. Follow Then, a choice key or a catch rule to the next task
//  5. Repeat until a transition points at END or the run fails
//
// Every transition taken is recorded in Result.Transitions. On failure Run
// returns a *WorkflowError and a partial Result with Success set to false;
// the same Result is reachable as WorkflowError.Result.
//
// Example:
//
//	result, err := stepgraph.Run(ctx, tasks, order,
//	    stepgraph.WithVars(map[string]any{"tenant": "acme"}),
//	    stepgraph.WithLogger(logger))
//	if err != nil {
//	    // result.Transitions shows how far the run got
//	}
func Run(ctx context.Context, tasks Tasks, input any, opts ...RunOption) (result *Result, runErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ec := newRunContext(ctx, &cfg)

	startTime := time.Now()
	observability.LogRunStart(cfg.logger, ec.runID, cfg.workflow)

	var runCtx context.Context = ctx
	var runSpan trace.Span
	if cfg.tracingEnabled {
		runCtx, runSpan = cfg.spans.StartRunSpan(ctx, cfg.workflow, ec.runID)
		defer func() {
			cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
	}
	ec.Context = runCtx

	r := &runner{
		tasks: tasks,
		cfg:   &cfg,
		ec:    ec,
		result: &Result{
			RunID: ec.runID,
			Vars:  ec.vars,
		},
	}
	runErr = r.run(input)
	result = r.result

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordRun(runCtx, runErr == nil, duration)

	if runErr != nil {
		lastTask := ""
		if wfErr, ok := runErr.(*WorkflowError); ok {
			lastTask = wfErr.Task
		}
		observability.LogRunError(cfg.logger, ec.runID, runErr, durationMs, lastTask)
	} else {
		observability.LogRunComplete(cfg.logger, ec.runID, durationMs, r.steps)
	}

	if cfg.archiveStore != nil {
		if err := r.archive(runCtx, runErr); err != nil && runErr == nil {
			runErr = r.fail(r.lastTask(), nil, err, r.result.Output)
		}
	}

	return result, runErr
}

// newRunContext builds the run's Context. Every run owns its run ID and
// Vars. A parent Context, such as the one a step receives when it starts a
// nested run, lends only its logger and a shallow copy of its Vars.
func newRunContext(ctx context.Context, cfg *runConfig) *executionContext {
	ec := &executionContext{
		Context: ctx,
		logger:  cfg.logger,
		runID:   cfg.runID,
		vars:    cfg.vars,
	}

	if parent, ok := ctx.(*executionContext); ok {
		if ec.logger == nil {
			ec.logger = parent.base
		}
		if ec.vars == nil {
			ec.vars = parent.vars.Clone()
		}
	}

	if ec.runID == "" {
		ec.runID = uuid.New().String()
	}
	if ec.logger == nil {
		ec.logger = slog.Default()
	}
	if ec.vars == nil {
		ec.vars = make(Vars)
	}
	ec.base = ec.logger
	return ec
}

// runner holds the mutable state of one execution.
type runner struct {
	tasks  Tasks
	cfg    *runConfig
	ec     *executionContext
	result *Result
	steps  int
}

func (r *runner) run(input any) error {
	current, ok := r.tasks.StartTask()
	if !ok {
		return r.fail("", nil, &StructuralError{Err: ErrNoStartTask}, input)
	}

	r.record(LabelStart, END, current.Name, input)
	payload := input

	for {
		if r.cfg.maxSteps > 0 && r.steps >= r.cfg.maxSteps {
			return r.fail(current.Name, nil, &MaxStepsError{Max: r.cfg.maxSteps, Task: current.Name}, payload)
		}

		if err := r.ec.Context.Err(); err != nil {
			return r.fail(current.Name, nil, &CancellationError{Task: current.Name, Cause: err}, payload)
		}

		out, stepErr, err := r.invoke(current, payload)
		if err != nil {
			return r.fail(current.Name, nil, err, payload)
		}

		var next Task
		var done bool
		if stepErr != nil {
			next, payload, done, err = r.onFailure(current, stepErr)
		} else {
			next, payload, done, err = r.onSuccess(current, payload, out)
		}
		if err != nil {
			return err
		}
		if done {
			r.result.Success = true
			r.result.Output = payload
			return nil
		}
		current = next
	}
}

// invoke runs one step with panic recovery, an optional deadline, a span
// and metrics. stepErr is the step's own failure; err is a structural
// problem that must not reach catch rules.
func (r *runner) invoke(task Task, input any) (out any, stepErr, err error) {
	if task.Kind != KindActivity && task.Kind != KindChoice {
		return nil, nil, &StructuralError{Task: task.Name, Ref: task.Kind.String(), Err: ErrUnknownKind}
	}
	if task.Fn == nil {
		return nil, nil, &StructuralError{Task: task.Name, Err: ErrNoStepFunc}
	}

	r.steps++
	observability.LogTaskStart(r.cfg.logger, task.Name)

	var taskCtx context.Context = r.ec.Context
	var span trace.Span
	if r.cfg.tracingEnabled {
		taskCtx, span = r.cfg.spans.StartTaskSpan(taskCtx, task.Name, task.Kind.String())
	}
	if r.cfg.stepTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, r.cfg.stepTimeout)
		defer cancel()
	}

	start := time.Now()
	out, stepErr = r.call(r.ec.forTask(taskCtx, task.Name), task, input)
	duration := time.Since(start)

	r.cfg.metrics.RecordTaskExecution(taskCtx, task.Name, duration, stepErr)
	if r.cfg.tracingEnabled {
		r.cfg.spans.EndSpanWithError(span, stepErr)
	}

	if stepErr != nil {
		observability.LogTaskError(r.cfg.logger, task.Name, stepErr)
	} else {
		observability.LogTaskComplete(r.cfg.logger, task.Name, float64(duration.Milliseconds()))
	}
	return out, stepErr, nil
}

// call invokes the step function, converting a panic into *PanicError.
func (r *runner) call(ctx Context, task Task, input any) (out any, err error) {
	defer func() {
		if v := recover(); v != nil {
			out = nil
			err = &PanicError{
				Task:  task.Name,
				Value: v,
				Stack: string(debug.Stack()),
			}
		}
	}()
	return task.Fn(ctx, input)
}

// onSuccess follows Then for activities and the output key for choices.
// A choice forwards its own input, not its output.
func (r *runner) onSuccess(task Task, input, out any) (next Task, payload any, done bool, err error) {
	if task.IsActivity() {
		if task.Then == END {
			r.record(LabelEnd, task.Name, END, out)
			return Task{}, out, true, nil
		}
		next, err = r.resolve(task, task.Then, out)
		if err != nil {
			return Task{}, nil, false, err
		}
		r.record(LabelThen, task.Name, next.Name, out)
		return next, out, false, nil
	}

	key := fmt.Sprint(out)
	target, ok := task.Route(key)
	if !ok {
		return Task{}, nil, false, r.fail(task.Name, nil, &StructuralError{Task: task.Name, Ref: key, Err: ErrUnmappedChoice}, out)
	}
	if target == END {
		r.record(key, task.Name, END, out)
		return Task{}, out, true, nil
	}
	next, err = r.resolve(task, target, out)
	if err != nil {
		return Task{}, nil, false, err
	}
	r.record(key, task.Name, next.Name, input)
	return next, input, false, nil
}

// onFailure routes a step failure through the task's catch rules.
func (r *runner) onFailure(task Task, stepErr error) (next Task, payload any, done bool, err error) {
	if task.IsChoice() || len(task.Catch) == 0 {
		return Task{}, nil, false, r.fail(task.Name, ErrNoCatchRoute, stepErr, stepErr)
	}

	rule, ok := task.MatchCatch(stepErr.Error())
	if !ok {
		return Task{}, nil, false, r.fail(task.Name, ErrNoMatchingCatch, stepErr, stepErr)
	}
	r.cfg.metrics.RecordCatch(r.ec.Context, task.Name, rule.Pattern)

	caught := CatchInput{Key: rule.Pattern, Err: stepErr}
	if rule.Then == END {
		r.record(rule.Pattern, task.Name, END, caught)
		return Task{}, caught, true, nil
	}
	next, err = r.resolve(task, rule.Then, caught)
	if err != nil {
		return Task{}, nil, false, err
	}
	r.record(rule.Pattern, task.Name, next.Name, caught)
	return next, caught, false, nil
}

// resolve looks up a successor by name, failing the run if it is missing.
func (r *runner) resolve(from Task, name string, value any) (Task, error) {
	next, ok := r.tasks.Lookup(name)
	if !ok {
		return Task{}, r.fail(from.Name, nil, &StructuralError{Task: from.Name, Ref: name, Err: ErrTaskNotFound}, value)
	}
	return next, nil
}

// record appends a transition to the trace.
func (r *runner) record(label, from, to string, payload any) {
	r.result.Transitions = append(r.result.Transitions, Transition{
		Label:   label,
		From:    from,
		To:      to,
		Payload: payload,
	})
	observability.LogTransition(r.cfg.logger, label, from, to)
	r.cfg.spans.AddSpanEvent(r.ec.Context, "transition",
		attribute.String("label", label),
		attribute.String("from", from),
		attribute.String("to", to),
	)
}

// lastTask returns the task the trace last left from.
func (r *runner) lastTask() string {
	if n := len(r.result.Transitions); n > 0 {
		return r.result.Transitions[n-1].From
	}
	return ""
}

// fail marks the result unsuccessful and wraps cause in a *WorkflowError.
func (r *runner) fail(task string, reason, cause error, output any) error {
	r.result.Success = false
	r.result.Output = output
	return &WorkflowError{
		Task:   task,
		Reason: reason,
		Cause:  cause,
		Result: r.result,
		tasks:  r.tasks,
	}
}

// archive saves the finished trace. The returned *ArchiveError is non-nil
// only in fatal archive mode; Run wraps it in a *WorkflowError.
func (r *runner) archive(ctx context.Context, runErr error) error {
	rec := archive.New(r.result.RunID, r.cfg.workflow, r.result.Success)
	if runErr != nil {
		task := ""
		if wfErr, ok := runErr.(*WorkflowError); ok {
			task = wfErr.Task
		}
		rec.WithError(task, runErr)
	}
	for _, t := range r.result.Transitions {
		rec.Add(t.Label, t.From, t.To, t.Payload)
	}

	size, err := archive.SaveRecord(r.cfg.archiveStore, rec)
	if err != nil {
		if r.cfg.archiveFailureFatal {
			return &ArchiveError{RunID: r.result.RunID, Err: err}
		}
		observability.LogArchiveError(r.cfg.logger, r.result.RunID, err)
		return nil
	}

	observability.LogArchive(r.cfg.logger, r.result.RunID, size)
	r.cfg.metrics.RecordArchive(ctx, int64(size))
	return nil
}
