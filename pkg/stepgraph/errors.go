package stepgraph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for graph structure. They surface wrapped in a
// StructuralError and are never matched against catch rules.
var (
	// ErrNoStartTask indicates the task list is empty.
	ErrNoStartTask = errors.New("no start task found")

	// ErrTaskNotFound indicates a successor name that no task carries.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnmappedChoice indicates a choice returned a key it does not declare.
	ErrUnmappedChoice = errors.New("choice key not mapped")

	// ErrNoStepFunc indicates a task without a step function was reached.
	ErrNoStepFunc = errors.New("task has no step function")

	// ErrUnknownKind indicates a task whose Kind is neither activity nor choice.
	ErrUnknownKind = errors.New("unknown task kind")
)

// Sentinel errors for unrecovered step failures.
var (
	// ErrNoCatchRoute indicates a failure in a choice or in an activity
	// without catch rules.
	ErrNoCatchRoute = errors.New("no catch route")

	// ErrNoMatchingCatch indicates no catch pattern matched the failure.
	ErrNoMatchingCatch = errors.New("no matching catch")
)

// Sentinel errors for Graph.Compile.
var (
	// ErrEmptyGraph indicates Compile was called before any task was added.
	ErrEmptyGraph = errors.New("graph has no tasks")

	// ErrStartNotFound indicates SetStart named a task that was never added.
	ErrStartNotFound = errors.New("start task not found")

	// ErrRuleSource indicates a rule was attached to a missing task or to
	// a task of the wrong kind.
	ErrRuleSource = errors.New("invalid rule source")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Run was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrMaxSteps indicates the configured step limit was exceeded.
	ErrMaxSteps = errors.New("exceeded maximum steps")
)

// StructuralError reports graph misconfiguration found while following it.
type StructuralError struct {
	// Task is the task whose successor could not be followed.
	// Empty when the graph has no start task.
	Task string
	// Ref is the offending name or choice key, if any.
	Ref string
	// Err is one of the structural sentinels.
	Err error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	switch {
	case e.Task == "":
		return e.Err.Error()
	case e.Ref == "":
		return fmt.Sprintf("task %s: %v", e.Task, e.Err)
	default:
		return fmt.Sprintf("task %s: %v: %q", e.Task, e.Err, e.Ref)
	}
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a step function.
// It is handled like any other step failure, so catch rules can route it.
type PanicError struct {
	// Task is the task whose function panicked.
	Task string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}

// CancellationError reports that the run context ended before a step.
type CancellationError struct {
	// Task is the task that was about to run.
	Task string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before task %s: %v", e.Task, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// MaxStepsError reports that WithMaxSteps stopped a run.
type MaxStepsError struct {
	Max  int
	Task string
}

// Error implements the error interface.
func (e *MaxStepsError) Error() string {
	return fmt.Sprintf("exceeded maximum steps (%d) at task %s", e.Max, e.Task)
}

// Unwrap returns ErrMaxSteps for errors.Is support.
func (e *MaxStepsError) Unwrap() error {
	return ErrMaxSteps
}

// ArchiveError reports a failed archive save in fatal archive mode.
type ArchiveError struct {
	RunID string
	Err   error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive run %s: %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// WorkflowError is returned by Run for every failed execution.
//
// Cause is the original error: a step failure, a *StructuralError, a
// *CancellationError or a *MaxStepsError. Reason is ErrNoCatchRoute or
// ErrNoMatchingCatch for unrecovered step failures and nil otherwise.
// Result holds the trace up to the failure with Success set to false.
//
//	res, err := stepgraph.Run(ctx, tasks, input)
//	var wfErr *stepgraph.WorkflowError
//	if errors.As(err, &wfErr) {
//	    log.Printf("failed at %s after %d transitions", wfErr.Task, len(wfErr.Result.Transitions))
//	}
type WorkflowError struct {
	// Task is the task being executed or routed from when the run failed.
	Task   string
	Reason error
	Cause  error
	Result *Result

	tasks Tasks
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%v for error: %v", e.Reason, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap exposes both Reason and Cause to errors.Is/As.
func (e *WorkflowError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Tasks returns the task list of the failed run, for diagram rendering.
func (e *WorkflowError) Tasks() Tasks {
	return e.tasks
}

// Structural reports whether the failure came from graph misconfiguration.
func (e *WorkflowError) Structural() bool {
	var se *StructuralError
	return errors.As(e.Cause, &se)
}

// JSON renders the error message and original cause as JSON.
func (e *WorkflowError) JSON() ([]byte, error) {
	payload := struct {
		Message       string `json:"message"`
		Task          string `json:"task,omitempty"`
		OriginalError string `json:"originalError,omitempty"`
	}{
		Message: e.Error(),
		Task:    e.Task,
	}
	if e.Cause != nil {
		payload.OriginalError = e.Cause.Error()
	}
	return json.Marshal(payload)
}

// Failure is a step error described by a plain string.
// Catch patterns match against Description verbatim.
type Failure struct {
	Description string
}

// Fail returns a *Failure with the given description.
//
//	return nil, stepgraph.Fail("Timeout")
func Fail(description string) error {
	return &Failure{Description: description}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Description
}

// IsStructural reports whether err carries a *StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
