package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a workflow definition for dangling task references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, tasks, err := a.loadTasks(args[0])
			if err != nil {
				return err
			}
			if err := stepgraph.Validate(tasks); err != nil {
				a.logger.Warn("definition has dangling references", "workflow", doc.Name, "error", err)
				return fmt.Errorf("%s: %w", doc.Name, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d tasks)\n", doc.Name, len(tasks))
			return err
		},
	}
}
