package stepgraph

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a mutable builder that wires tasks by name.
// Use NewGraph, add tasks and rules in any order, then call Compile to
// get the Tasks consumed by Run. Rules may name tasks that are added
// later.
//
// Graph is NOT thread-safe during building. Use a single goroutine to
// construct the graph, then call Compile.
//
// Example:
//
//	tasks, err := stepgraph.NewGraph().
//	    AddActivity("charge", chargeCard).
//	    AddActivity("ship", ship).
//	    AddActivity("notify", notify).
//	    Then("charge", "ship").
//	    Catch("charge", "*declined*", "notify").
//	    SetStart("charge").
//	    Compile()
type Graph struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]*Task
	start string

	// misuse collects rule errors reported by Compile.
	misuse []error
}

// NewGraph creates an empty graph builder.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[string]*Task),
	}
}

// AddActivity adds an activity. Returns the graph for method chaining.
//
// Panics if:
//   - name is empty
//   - name contains whitespace (space, tab, newline)
//   - fn is nil
//   - name already exists in the graph
func (g *Graph) AddActivity(name string, fn StepFunc) *Graph {
	return g.add(name, KindActivity, fn)
}

// AddChoice adds a choice. Returns the graph for method chaining.
// Panics under the same conditions as AddActivity.
func (g *Graph) AddChoice(name string, fn StepFunc) *Graph {
	return g.add(name, KindChoice, fn)
}

func (g *Graph) add(name string, kind Kind, fn StepFunc) *Graph {
	if name == "" {
		panic("stepgraph: task name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n\r") {
		panic("stepgraph: task name cannot contain whitespace")
	}
	if fn == nil {
		panic(fmt.Sprintf("stepgraph: task %s: step function cannot be nil", name))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.tasks[name]; exists {
		panic(fmt.Sprintf("stepgraph: duplicate task name: %s", name))
	}

	g.tasks[name] = &Task{Name: name, Kind: kind, Fn: fn}
	g.order = append(g.order, name)
	return g
}

// Then sets the success successor of activity from. Use END to finish.
// Returns the graph for method chaining.
func (g *Graph) Then(from, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t := g.source(from, KindActivity, "then"); t != nil {
		t.Then = to
	}
	return g
}

// Catch appends a catch rule to activity from. Rules are tried in the
// order they are added. Returns the graph for method chaining.
func (g *Graph) Catch(from, pattern, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t := g.source(from, KindActivity, "catch"); t != nil {
		t.Catch = append(t.Catch, CatchRule{Pattern: pattern, Then: to})
	}
	return g
}

// When maps a key of choice from to a successor.
// Returns the graph for method chaining.
func (g *Graph) When(from, key, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.source(from, KindChoice, "when")
	if t == nil {
		return g
	}
	if _, exists := t.Route(key); exists {
		g.misuse = append(g.misuse, fmt.Errorf("%w: choice %s maps key %q twice", ErrRuleSource, from, key))
		return g
	}
	t.Choices = append(t.Choices, ChoiceRule{Key: key, Then: to})
	return g
}

// SetStart designates the start task. Defaults to the first task added.
// Returns the graph for method chaining.
func (g *Graph) SetStart(name string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.start = name
	return g
}

// source returns the task a rule attaches to, recording misuse when the
// task is missing or of the wrong kind. Callers hold g.mu.
func (g *Graph) source(name string, kind Kind, rule string) *Task {
	t, ok := g.tasks[name]
	if !ok {
		g.misuse = append(g.misuse, fmt.Errorf("%w: %s rule on unknown task %s", ErrRuleSource, rule, name))
		return nil
	}
	if t.Kind != kind {
		g.misuse = append(g.misuse, fmt.Errorf("%w: %s rule on %s %s", ErrRuleSource, rule, t.Kind, name))
		return nil
	}
	return t
}
