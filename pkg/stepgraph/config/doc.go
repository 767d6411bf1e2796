/*
Package config provides type-safe configuration extraction from nested
YAML or JSON documents, and maps it onto stepgraph run options.

# Basic Usage

	cfg, err := config.FromFile("stepgraph.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	timeout := cfg.Duration("run.step_timeout", 0)
	metrics := cfg.Bool("observability.metrics", false)

Keys are dotted paths into nested maps. All accessors return the default
value if the key is missing or the value cannot be converted.

# Type Coercion

Duration accepts strings parsed with time.ParseDuration ("30s", "1h30m"),
numbers interpreted as seconds, and time.Duration values. Int accepts a
float64 only when it has no fractional part.

# Run Options

RunOptions turns a Config into []stepgraph.RunOption:

	opts, store, err := config.RunOptions(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	if store != nil {
	    defer store.Close()
	}
	result, err := stepgraph.Run(ctx, tasks, input, opts...)

NewLogger builds the slog logger described by log.level and log.format.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
