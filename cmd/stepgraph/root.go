package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph/config"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
}

// RootCmd builds the stepgraph command tree.
func RootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "stepgraph",
		Short:         "Render, lint and trace stepgraph workflow definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .json)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		diagramCmd(a),
		validateCmd(a),
		runsCmd(a),
		traceCmd(a),
	)

	return root
}

// setup loads the config file and builds the logger. Flags override the
// log.level and log.format keys.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.New(nil)
	if a.configPath != "" {
		cfg, err := config.FromFile(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}

	level := a.cfg.String(config.KeyLogLevel, "warn")
	if cmd.Flags().Changed("log-level") {
		level = a.logLevel
	}
	format := a.cfg.String(config.KeyLogFormat, "text")
	if cmd.Flags().Changed("log-format") {
		format = a.logFormat
	}

	logger, err := config.NewLogger(config.New(map[string]any{
		"log": map[string]any{"level": level, "format": format},
	}), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}
