package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records stepgraph metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTaskExecution records one step invocation and its outcome.
	RecordTaskExecution(ctx context.Context, task string, duration time.Duration, err error)

	// RecordCatch records a failure routed by a catch rule.
	RecordCatch(ctx context.Context, task, pattern string)

	// RecordRun records a finished run.
	RecordRun(ctx context.Context, success bool, duration time.Duration)

	// RecordArchive records the size of a saved archive record.
	RecordArchive(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	taskExecutions metric.Int64Counter
	taskLatency    metric.Float64Histogram
	taskErrors     metric.Int64Counter
	catchRouted    metric.Int64Counter
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
	archiveSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stepgraph")

	taskExecutions, err := meter.Int64Counter("stepgraph.task.executions",
		metric.WithDescription("Number of step invocations"),
	)
	if err != nil {
		return nil, err
	}

	taskLatency, err := meter.Float64Histogram("stepgraph.task.latency_ms",
		metric.WithDescription("Step latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	taskErrors, err := meter.Int64Counter("stepgraph.task.errors",
		metric.WithDescription("Number of failed step invocations"),
	)
	if err != nil {
		return nil, err
	}

	catchRouted, err := meter.Int64Counter("stepgraph.catch.routed",
		metric.WithDescription("Number of failures routed by a catch rule"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("stepgraph.run.count",
		metric.WithDescription("Number of workflow runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("stepgraph.run.latency_ms",
		metric.WithDescription("Workflow run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	archiveSize, err := meter.Int64Histogram("stepgraph.archive.size_bytes",
		metric.WithDescription("Archive record size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		taskExecutions: taskExecutions,
		taskLatency:    taskLatency,
		taskErrors:     taskErrors,
		catchRouted:    catchRouted,
		runs:           runs,
		runLatency:     runLatency,
		archiveSize:    archiveSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider. If instrument creation fails, it returns NoopMetrics.
//
// Configure the provider first:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordTaskExecution(ctx context.Context, task string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("task", task))

	m.taskExecutions.Add(ctx, 1, attrs)
	m.taskLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.taskErrors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordCatch(ctx context.Context, task, pattern string) {
	m.catchRouted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("pattern", pattern),
	))
}

func (m *otelMetrics) RecordRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *otelMetrics) RecordArchive(ctx context.Context, sizeBytes int64) {
	m.archiveSize.Record(ctx, sizeBytes)
}
