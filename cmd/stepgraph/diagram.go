package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/definition"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/diagram"
)

// renderFlags selects how a diagram is printed.
type renderFlags struct {
	png  bool
	live bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.png, "png", false, "print a mermaid.ink PNG link instead of the source")
	cmd.Flags().BoolVar(&f.live, "live", false, "print a mermaid.live editor link instead of the source")
	cmd.MarkFlagsMutuallyExclusive("png", "live")
}

func (f *renderFlags) render(tasks stepgraph.Tasks, result *stepgraph.Result) string {
	switch {
	case f.png:
		return diagram.PNGURL(tasks, result)
	case f.live:
		return diagram.LiveEditURL(tasks, result)
	default:
		return diagram.Mermaid(tasks, result)
	}
}

func diagramCmd(a *app) *cobra.Command {
	var render renderFlags

	cmd := &cobra.Command{
		Use:   "diagram <file>",
		Short: "Print a Mermaid flowchart of a workflow definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, tasks, err := a.loadTasks(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("rendering diagram", "workflow", doc.Name, "tasks", len(tasks))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.render(tasks, nil))
			return err
		},
	}
	render.register(cmd)
	return cmd
}

// loadTasks reads a definition and builds it without step functions.
func (a *app) loadTasks(path string) (*definition.Document, stepgraph.Tasks, error) {
	doc, err := definition.Load(path)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := doc.Build(nil)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("definition loaded", "path", path, "workflow", doc.Name, "tasks", len(tasks))
	return doc, tasks, nil
}
