package stepgraph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuralError_Error(t *testing.T) {
	assert.Equal(t, "no start task found", (&StructuralError{Err: ErrNoStartTask}).Error())
	assert.Equal(t, "task a: task has no step function", (&StructuralError{Task: "a", Err: ErrNoStepFunc}).Error())
	assert.Equal(t, `task c: choice key not mapped: "k"`, (&StructuralError{Task: "c", Ref: "k", Err: ErrUnmappedChoice}).Error())
}

func TestCancellationError_Unwrap(t *testing.T) {
	err := &CancellationError{Task: "a", Cause: context.DeadlineExceeded}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "cancelled before task a: context deadline exceeded", err.Error())
}

func TestMaxStepsError_Unwrap(t *testing.T) {
	err := &MaxStepsError{Max: 3, Task: "loop"}

	assert.ErrorIs(t, err, ErrMaxSteps)
	assert.Equal(t, "exceeded maximum steps (3) at task loop", err.Error())
}

func TestArchiveError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &ArchiveError{RunID: "r1", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "archive run r1: disk full", err.Error())
}

func TestWorkflowError_Message(t *testing.T) {
	cause := Fail("Timeout")

	withReason := &WorkflowError{Task: "a", Reason: ErrNoCatchRoute, Cause: cause}
	assert.Equal(t, "no catch route for error: Timeout", withReason.Error())
	assert.ErrorIs(t, withReason, ErrNoCatchRoute)
	assert.ErrorIs(t, withReason, cause)
	assert.False(t, withReason.Structural())

	structural := &WorkflowError{Task: "a", Cause: &StructuralError{Task: "a", Ref: "b", Err: ErrTaskNotFound}}
	assert.Equal(t, `task a: task not found: "b"`, structural.Error())
	assert.True(t, structural.Structural())
}

func TestWorkflowError_JSON(t *testing.T) {
	tasks := Tasks{activity("a", failing("boom"), END)}
	_, err := Run(testCtx(), tasks, nil)

	wfErr := asWorkflowError(err)
	require.NotNil(t, wfErr)
	assert.Equal(t, tasks.Names(), wfErr.Tasks().Names())

	data, jsonErr := wfErr.JSON()
	require.NoError(t, jsonErr)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "no catch route for error: boom", decoded["message"])
	assert.Equal(t, "a", decoded["task"])
	assert.Equal(t, "boom", decoded["originalError"])
}

func TestCatchInput_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CatchInput{Key: "Time*", Err: Fail("Timeout")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"Time*","error":"Timeout"}`, string(data))

	data, err = json.Marshal(CatchInput{Key: "*"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"*","error":""}`, string(data))
}

func TestIsStructural(t *testing.T) {
	assert.True(t, IsStructural(&StructuralError{Err: ErrNoStartTask}))
	assert.False(t, IsStructural(Fail("x")))
	assert.False(t, IsStructural(nil))
}
