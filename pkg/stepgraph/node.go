package stepgraph

import "fmt"

// Node is a task under construction with the object-chaining builders.
// Successors are other Nodes; a nil Node means END.
type Node interface {
	// Name returns the task name.
	Name() string

	task() Task
	next() []Node
}

// Activity builds an activity task.
//
//	charge := stepgraph.NewActivity("charge", chargeCard)
//	charge.Then(ship).Catch("*declined*", notify)
type Activity struct {
	name    string
	fn      StepFunc
	then    Node
	catches []catchNode
}

type catchNode struct {
	pattern string
	target  Node
}

// NewActivity creates an activity.
//
// Panics if name is empty or fn is nil.
func NewActivity(name string, fn StepFunc) *Activity {
	if name == "" {
		panic("stepgraph: activity name cannot be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("stepgraph: activity %s: step function cannot be nil", name))
	}
	return &Activity{name: name, fn: fn}
}

// Name returns the activity name.
func (a *Activity) Name() string { return a.name }

// Then sets the successor run after a successful step. A nil next ends
// the workflow. Returns the receiver for chaining.
func (a *Activity) Then(next Node) *Activity {
	a.then = next
	return a
}

// Catch appends a catch rule. Rules are tried in the order they are added.
// A nil next ends the workflow with a CatchInput output.
// Returns the receiver for chaining.
func (a *Activity) Catch(pattern string, next Node) *Activity {
	a.catches = append(a.catches, catchNode{pattern: pattern, target: next})
	return a
}

func (a *Activity) task() Task {
	t := Task{
		Name: a.name,
		Kind: KindActivity,
		Fn:   a.fn,
		Then: nameOf(a.then),
	}
	for _, c := range a.catches {
		t.Catch = append(t.Catch, CatchRule{Pattern: c.pattern, Then: nameOf(c.target)})
	}
	return t
}

func (a *Activity) next() []Node {
	out := make([]Node, 0, 1+len(a.catches))
	out = append(out, a.then)
	for _, c := range a.catches {
		out = append(out, c.target)
	}
	return out
}

// Choice builds a choice task. Its step output, formatted with fmt.Sprint,
// selects the branch; the chosen successor receives the choice's input.
//
//	route := stepgraph.NewChoice("route", byRegion).
//	    When("eu", euShipping).
//	    When("us", usShipping)
type Choice struct {
	name     string
	fn       StepFunc
	branches []branchNode
}

type branchNode struct {
	key    string
	target Node
}

// NewChoice creates a choice.
//
// Panics if name is empty or fn is nil.
func NewChoice(name string, fn StepFunc) *Choice {
	if name == "" {
		panic("stepgraph: choice name cannot be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("stepgraph: choice %s: step function cannot be nil", name))
	}
	return &Choice{name: name, fn: fn}
}

// Name returns the choice name.
func (c *Choice) Name() string { return c.name }

// When maps key to next. A nil next ends the workflow.
// Returns the receiver for chaining.
//
// Panics if key is already mapped.
func (c *Choice) When(key string, next Node) *Choice {
	for _, b := range c.branches {
		if b.key == key {
			panic(fmt.Sprintf("stepgraph: choice %s: duplicate key %q", c.name, key))
		}
	}
	c.branches = append(c.branches, branchNode{key: key, target: next})
	return c
}

func (c *Choice) task() Task {
	t := Task{
		Name: c.name,
		Kind: KindChoice,
		Fn:   c.fn,
	}
	for _, b := range c.branches {
		t.Choices = append(t.Choices, ChoiceRule{Key: b.key, Then: nameOf(b.target)})
	}
	return t
}

func (c *Choice) next() []Node {
	out := make([]Node, 0, len(c.branches))
	for _, b := range c.branches {
		out = append(out, b.target)
	}
	return out
}

// isEnd reports whether n stands for END, typed nil pointers included.
func isEnd(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Activity:
		return v == nil
	case *Choice:
		return v == nil
	}
	return false
}

func nameOf(n Node) string {
	if isEnd(n) {
		return END
	}
	return n.Name()
}

// Flatten converts a node graph into the task list consumed by Run.
//
// Tasks are listed in pre-order: a node, then everything reachable through
// its Then, then through each catch or choice target in order. A name seen
// twice keeps its first occurrence, which also makes cycles safe. The root
// is flagged Start.
func Flatten(start Node) Tasks {
	if isEnd(start) {
		return nil
	}

	var out Tasks
	seen := make(map[string]bool)

	var visit func(n Node)
	visit = func(n Node) {
		if isEnd(n) || seen[n.Name()] {
			return
		}
		seen[n.Name()] = true
		out = append(out, n.task())
		for _, next := range n.next() {
			visit(next)
		}
	}
	visit(start)

	out[0].Start = true
	return out
}
