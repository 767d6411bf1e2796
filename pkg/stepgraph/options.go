package stepgraph

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/observability"
)

// runConfig holds configuration for one execution.
type runConfig struct {
	vars     Vars
	runID    string
	workflow string

	// Observability
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	// Guards
	stepTimeout time.Duration
	maxSteps    int

	// Archive
	archiveStore        archive.Store
	archiveFailureFatal bool
}

// defaultRunConfig returns the default execution configuration.
// Observability is off, there is no step timeout and no step limit.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithVars seeds the run's shared key/value store.
// The map is shallow-copied; steps never see the caller's map.
func WithVars(vars map[string]any) RunOption {
	return func(c *runConfig) {
		c.vars = Vars(vars).Clone()
	}
}

// WithRunID sets the run identifier used in logs, spans and the archive.
// Default: a generated UUID.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithName names the workflow in logs, spans and archive records.
func WithName(name string) RunOption {
	return func(c *runConfig) {
		c.workflow = name
	}
}

// WithLogger enables structured logging for the run. Step functions
// receive the same logger, enriched with run_id and task, via
// ctx.Logger().
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	result, err := stepgraph.Run(ctx, tasks, input, stepgraph.WithLogger(logger))
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics through the global meter
// provider. Default: disabled.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans through the global tracer
// provider: one "stepgraph.run" span with a child span per step.
// Default: disabled.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithStepTimeout gives every step a context deadline. The engine does not
// abandon a running step: a step that ignores ctx.Done() runs to completion.
// A step that returns the deadline error fails like any other step.
// Default: 0 (no deadline).
func WithStepTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.stepTimeout = d
		}
	}
}

// WithMaxSteps stops a run with *MaxStepsError after n step invocations.
// Cyclic graphs are legal, so the default is 0 (unlimited).
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// WithArchive saves a trace record to store after every run, successful
// or not. Save failures are logged and ignored unless
// WithArchiveFailureFatal(true) is also set.
func WithArchive(store archive.Store) RunOption {
	return func(c *runConfig) {
		c.archiveStore = store
	}
}

// WithArchiveFailureFatal makes an archive save failure fail an otherwise
// successful run: Run returns a *WorkflowError whose Cause is an
// *ArchiveError, and Result.Success is false. A run that already failed
// keeps its own error. Default: false.
func WithArchiveFailureFatal(fatal bool) RunOption {
	return func(c *runConfig) {
		c.archiveFailureFatal = fatal
	}
}
