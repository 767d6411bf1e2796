package stepgraph

import "context"

// Workflow pairs a name with a flattened task list.
//
//	wf := stepgraph.NewWorkflow("checkout", charge)
//	result, err := wf.Run(ctx, order)
type Workflow struct {
	name  string
	tasks Tasks
}

// NewWorkflow flattens the graph rooted at start.
func NewWorkflow(name string, start Node) *Workflow {
	return &Workflow{name: name, tasks: Flatten(start)}
}

// FromTasks wraps an existing task list, such as the output of
// Graph.Compile.
func FromTasks(name string, tasks Tasks) *Workflow {
	return &Workflow{name: name, tasks: tasks}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Tasks returns the task list.
func (w *Workflow) Tasks() Tasks { return w.tasks }

// Run executes the workflow. The workflow name is applied before opts, so
// WithName in opts overrides it.
func (w *Workflow) Run(ctx context.Context, input any, opts ...RunOption) (*Result, error) {
	return Run(ctx, w.tasks, input, append([]RunOption{WithName(w.name)}, opts...)...)
}
