package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/config"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/diagram"
)

// openArchive opens the SQLite archive named by --db, falling back to
// archive.path in the config file.
func (a *app) openArchive(db string) (*archive.SQLiteStore, error) {
	if db == "" {
		db = a.cfg.String(config.KeyArchivePath, "")
	}
	if db == "" {
		return nil, errors.New("no archive: pass --db or set archive.path")
	}
	store, err := archive.NewSQLiteStore(db)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return store, nil
}

func runsCmd(a *app) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openArchive(db)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tTIME\tBYTES")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%d\n", info.RunID, info.Timestamp.Format(time.RFC3339), info.Size)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite archive path (default: archive.path from config)")
	return cmd
}

func traceCmd(a *app) *cobra.Command {
	var (
		db     string
		file   string
		render renderFlags
	)

	cmd := &cobra.Command{
		Use:   "trace <run-id>",
		Short: "Render an archived run over its workflow definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tasks, err := a.loadTasks(file)
			if err != nil {
				return err
			}

			store, err := a.openArchive(db)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := archive.LoadRecord(store, args[0])
			if err != nil {
				return err
			}
			if !rec.Success {
				a.logger.Info("archived run failed", "run_id", rec.RunID, "task", rec.Task, "error", rec.Error)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.render(tasks, diagram.FromRecord(rec)))
			return err
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite archive path (default: archive.path from config)")
	cmd.Flags().StringVar(&file, "file", "", "workflow definition the run executed")
	_ = cmd.MarkFlagRequired("file")
	render.register(cmd)
	return cmd
}
