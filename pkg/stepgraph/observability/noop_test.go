package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordTaskExecution(ctx, "task", time.Millisecond, nil)
		m.RecordTaskExecution(ctx, "task", time.Millisecond, errors.New("x"))
		m.RecordCatch(ctx, "task", "*")
		m.RecordRun(ctx, true, time.Second)
		m.RecordArchive(ctx, 10)
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	runCtx, runSpan := sm.StartRunSpan(ctx, "wf", "run-1")
	assert.Equal(t, ctx, runCtx)
	assert.False(t, runSpan.IsRecording())

	taskCtx, taskSpan := sm.StartTaskSpan(runCtx, "a", "activity")
	assert.Equal(t, ctx, taskCtx)
	assert.False(t, taskSpan.SpanContext().IsValid())
	assert.False(t, trace.SpanFromContext(taskCtx).IsRecording())

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(taskCtx, "event", attribute.String("k", "v"))
		sm.EndSpanWithError(taskSpan, errors.New("x"))
		sm.EndSpanWithError(runSpan, nil)
	})
}
