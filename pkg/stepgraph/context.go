package stepgraph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context is handed to every step function.
// It extends context.Context with the run's shared Vars and metadata.
//
// The executor derives a Context per task with TaskName set and an
// enriched logger. Vars is the same map for every task of a run.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and task.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// RunID returns the unique identifier for this execution.
	RunID() string

	// TaskName returns the task being executed.
	// Empty outside of a step.
	TaskName() string

	// Vars returns the key/value store shared across the run.
	Vars() Vars
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger   *slog.Logger
	base     *slog.Logger
	runID    string
	taskName string
	vars     Vars
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// TaskName returns the current task name.
func (c *executionContext) TaskName() string {
	return c.taskName
}

// Vars returns the shared store.
func (c *executionContext) Vars() Vars {
	return c.vars
}

// ContextOption configures a Context built with NewContext.
type ContextOption func(*executionContext)

// WithContextLogger sets the logger for the context.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
			c.base = logger
		}
	}
}

// WithContextRunID sets the run identifier reported by the context itself.
// If not set, a UUID is generated. Run never adopts it; use WithRunID.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) {
		c.runID = id
	}
}

// WithContextVars uses vars as the shared store. The map is used as-is,
// not copied. A Run started under this context seeds its own Vars with a
// shallow copy.
func WithContextVars(vars Vars) ContextOption {
	return func(c *executionContext) {
		if vars != nil {
			c.vars = vars
		}
	}
}

// NewContext builds a Context outside of Run, mostly for calling step
// functions directly in tests.
//
//	ctx := stepgraph.NewContext(context.Background(),
//	    stepgraph.WithContextVars(stepgraph.Vars{"tenant": "acme"}))
//	out, err := chargeCard(ctx, order)
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
		vars:    make(Vars),
	}
	ec.base = ec.logger

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// forTask returns a context for one step invocation.
func (c *executionContext) forTask(ctx context.Context, taskName string) *executionContext {
	return &executionContext{
		Context:  ctx,
		logger:   c.base.With("run_id", c.runID, "task", taskName),
		base:     c.base,
		runID:    c.runID,
		taskName: taskName,
		vars:     c.vars,
	}
}
