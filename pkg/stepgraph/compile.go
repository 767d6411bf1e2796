package stepgraph

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Compile freezes the graph into Tasks.
// Returns an error if the builder was misused. Multiple errors are joined.
//
// Checks:
//  1. At least one task was added
//  2. The start task, if set, exists
//  3. Every rule was attached to an existing task of the right kind
//
// Successor names are not checked: a dangling name fails only the run
// that follows it. Use Validate to lint them up front.
//
// Tasks reachable from the start come first in traversal order, followed
// by unreachable tasks in insertion order. Unreachable tasks are logged as
// warnings but do not cause compilation to fail.
func (g *Graph) Compile() (Tasks, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	if len(g.order) == 0 {
		errs = append(errs, ErrEmptyGraph)
	}

	start := g.start
	if start == "" && len(g.order) > 0 {
		start = g.order[0]
	}
	if start != "" {
		if _, exists := g.tasks[start]; !exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrStartNotFound, start))
		}
	}

	errs = append(errs, g.misuse...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g.build(start), nil
}

// build orders tasks reachable from start first, then the rest.
func (g *Graph) build(start string) Tasks {
	reachable := g.reachableFrom(start)

	out := make(Tasks, 0, len(g.order))
	for _, name := range reachable {
		out = append(out, g.copyTask(name))
	}
	for _, name := range g.order {
		if slices.Contains(reachable, name) {
			continue
		}
		slog.Warn("task is unreachable from start", "task", name)
		out = append(out, g.copyTask(name))
	}

	out[0].Start = true
	return out
}

// reachableFrom returns task names reachable from start in pre-order.
func (g *Graph) reachableFrom(start string) []string {
	var order []string
	seen := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		t, ok := g.tasks[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
		for _, next := range t.Successors() {
			visit(next)
		}
	}
	visit(start)
	return order
}

func (g *Graph) copyTask(name string) Task {
	t := *g.tasks[name]
	t.Catch = slices.Clone(t.Catch)
	t.Choices = slices.Clone(t.Choices)
	return t
}

// Validate lints a task list without running it.
//
// It reports, joined with errors.Join:
//   - an empty list (ErrNoStartTask)
//   - tasks with an empty name
//   - tasks of unknown kind (ErrUnknownKind)
//   - successor names no task carries (ErrTaskNotFound)
//
// Step functions are not checked, so task lists built for rendering only
// validate too. Run does not call Validate; a graph with a dangling branch
// that is never taken runs fine.
func Validate(tasks Tasks) error {
	if len(tasks) == 0 {
		return &StructuralError{Err: ErrNoStartTask}
	}

	var errs []error
	for _, t := range tasks {
		if t.Name == "" {
			errs = append(errs, errors.New("task with empty name"))
			continue
		}
		if t.Kind != KindActivity && t.Kind != KindChoice {
			errs = append(errs, &StructuralError{Task: t.Name, Ref: t.Kind.String(), Err: ErrUnknownKind})
			continue
		}
		for _, next := range t.Successors() {
			if _, ok := tasks.Lookup(next); !ok {
				errs = append(errs, &StructuralError{Task: t.Name, Ref: next, Err: ErrTaskNotFound})
			}
		}
	}
	return errors.Join(errs...)
}
