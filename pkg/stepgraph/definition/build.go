package definition

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/expr"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/registry"
)

// Build turns the document into Tasks in declaration order, flagging the
// start task (Start, or the first task when Start is empty).
//
// Step functions are bound from steps by Fn name; a name that is not
// registered is an error. Choices with Expr get an expr.ChoiceStep. With a
// nil registry Fn is bound only for Expr choices and left nil otherwise.
func (d *Document) Build(steps *registry.Steps) (stepgraph.Tasks, error) {
	start := d.Start
	if start == "" && len(d.Tasks) > 0 {
		start = d.Tasks[0].Name
	}

	tasks := make(stepgraph.Tasks, 0, len(d.Tasks))
	var errs []error

	for _, def := range d.Tasks {
		task := stepgraph.Task{
			Name:  def.Name,
			Start: def.Name == start,
		}

		switch def.Type {
		case TypeChoice:
			task.Kind = stepgraph.KindChoice
			for _, c := range def.Choices {
				task.Choices = append(task.Choices, stepgraph.ChoiceRule{Key: c.Key, Then: c.Then})
			}
		default:
			task.Kind = stepgraph.KindActivity
			task.Then = def.Then
			for _, c := range def.Catch {
				task.Catch = append(task.Catch, stepgraph.CatchRule{Pattern: c.Pattern, Then: c.Then})
			}
		}

		switch {
		case def.Expr != "":
			task.Fn = expr.ChoiceStep(def.Expr)
		case steps == nil:
		case def.Fn == "":
			errs = append(errs, fmt.Errorf("task %q: no fn", def.Name))
		default:
			fn, err := steps.Lookup(def.Fn)
			if err != nil {
				errs = append(errs, fmt.Errorf("task %q: fn %w", def.Name, err))
				break
			}
			task.Fn = fn
		}

		tasks = append(tasks, task)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return tasks, nil
}

// Workflow builds the document into a named stepgraph.Workflow.
func (d *Document) Workflow(steps *registry.Steps) (*stepgraph.Workflow, error) {
	tasks, err := d.Build(steps)
	if err != nil {
		return nil, err
	}
	return stepgraph.FromTasks(d.Name, tasks), nil
}
