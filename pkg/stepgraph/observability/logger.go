// Package observability provides structured logging, metrics, and tracing
// for stepgraph runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds run and task fields to a logger.
//
//	enriched := EnrichLogger(logger, "run-123", "charge")
//	enriched.Info("doing work") // includes run_id, task
func EnrichLogger(logger *slog.Logger, runID, task string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("task", task),
	)
}

// LogRunStart logs the start of a run.
func LogRunStart(logger *slog.Logger, runID, workflow string) {
	if logger == nil {
		return
	}
	logger.Info("workflow run starting",
		slog.String("run_id", runID),
		slog.String("workflow", workflow),
	)
}

// LogRunComplete logs successful run completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, steps int) {
	if logger == nil {
		return
	}
	logger.Info("workflow run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps_executed", steps),
	)
}

// LogRunError logs run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, lastTask string) {
	if logger == nil {
		return
	}
	logger.Error("workflow run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_task", lastTask),
	)
}

// LogTaskStart logs the start of a step.
func LogTaskStart(logger *slog.Logger, task string) {
	if logger == nil {
		return
	}
	logger.Debug("task starting",
		slog.String("task", task),
	)
}

// LogTaskComplete logs a successful step.
func LogTaskComplete(logger *slog.Logger, task string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("task completed",
		slog.String("task", task),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTaskError logs a failed step. The failure may still be routed by a
// catch rule, so this is a warning rather than an error.
func LogTaskError(logger *slog.Logger, task string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("task failed",
		slog.String("task", task),
		slog.String("error", err.Error()),
	)
}

// LogTransition logs one recorded transition.
func LogTransition(logger *slog.Logger, label, from, to string) {
	if logger == nil {
		return
	}
	logger.Debug("transition",
		slog.String("label", label),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// LogArchive logs a saved archive record.
func LogArchive(logger *slog.Logger, runID string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("run archived",
		slog.String("run_id", runID),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogArchiveError logs a failed archive save (non-fatal).
func LogArchiveError(logger *slog.Logger, runID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("archive failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
	)
}
