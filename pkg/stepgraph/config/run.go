package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
)

// Keys read by RunOptions and NewLogger.
const (
	KeyStepTimeout   = "run.step_timeout"
	KeyMaxSteps      = "run.max_steps"
	KeyMetrics       = "observability.metrics"
	KeyTracing       = "observability.tracing"
	KeyArchivePath   = "archive.path"
	KeyArchiveFatal  = "archive.fatal"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// RunOptions translates configuration into stepgraph run options.
//
//	run:
//	  step_timeout: 30s
//	  max_steps: 1000
//	observability:
//	  metrics: true
//	  tracing: true
//	archive:
//	  path: ./runs.db
//	  fatal: false
//
// When archive.path is set, a SQLite archive is opened and returned; the
// caller must close it. The returned store is nil otherwise.
func RunOptions(cfg Config) ([]stepgraph.RunOption, archive.Store, error) {
	var opts []stepgraph.RunOption

	if d := cfg.Duration(KeyStepTimeout, 0); d > 0 {
		opts = append(opts, stepgraph.WithStepTimeout(d))
	}
	if n := cfg.Int(KeyMaxSteps, 0); n > 0 {
		opts = append(opts, stepgraph.WithMaxSteps(n))
	}
	opts = append(opts,
		stepgraph.WithMetrics(cfg.Bool(KeyMetrics, false)),
		stepgraph.WithTracing(cfg.Bool(KeyTracing, false)),
	)

	path := cfg.String(KeyArchivePath, "")
	if path == "" {
		return opts, nil, nil
	}

	store, err := archive.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	opts = append(opts,
		stepgraph.WithArchive(store),
		stepgraph.WithArchiveFailureFatal(cfg.Bool(KeyArchiveFatal, false)),
	)
	return opts, store, nil
}

// NewLogger builds a slog logger writing to w from log.level
// (debug, info, warn, error) and log.format (text, json).
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.String(KeyLogLevel, defaultLogLevel))
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format := strings.ToLower(cfg.String(KeyLogFormat, defaultLogFormat)); format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}
