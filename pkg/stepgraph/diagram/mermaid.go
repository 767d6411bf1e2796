// Package diagram renders task graphs and execution traces as Mermaid
// flowcharts.
//
// Mermaid returns the flowchart source. LiveEditURL and PNGURL wrap it in
// links to mermaid.live and mermaid.ink. When a Result is given, the tasks
// it entered are styled as traced and the edges it followed are drawn thick.
package diagram

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

const (
	startNode   = "Start((start))"
	endNode     = "End((end))"
	tracedClass = ":::traced"
	tracedStyle = "classDef traced fill:green,stroke-width:4px;"
	indent      = "    "
	plainArrow  = "-->"
	tracedArrow = "==>"
	catchLabel  = "catch %s"
)

// Mermaid renders tasks as a top-down flowchart. result may be nil.
//
// Activities are drawn as boxes and choices as diamonds. Every edge is
// labelled with "then", "catch <pattern>" or the choice key. Successors
// that name no task are still drawn, so dangling references are visible.
func Mermaid(tasks stepgraph.Tasks, result *stepgraph.Result) string {
	ids := newIDs()
	for _, t := range tasks {
		ids.of(t.Name)
	}

	lines := []string{"flowchart TD"}

	traced := result != nil
	lines = append(lines, styled(startNode, traced))
	lines = append(lines, styled(endNode, traced && result.Success && result.Ended()))

	for _, t := range tasks {
		shape := fmt.Sprintf("%s[%s]", ids.of(t.Name), quote(t.Name))
		if t.IsChoice() {
			shape = fmt.Sprintf("%s{%s}", ids.of(t.Name), quote(t.Name))
		}
		lines = append(lines, styled(shape, result.Visited(t.Name)))
	}

	if start, ok := tasks.StartTask(); ok {
		lines = append(lines, edge("Start", ids.of(start.Name), stepgraph.LabelStart,
			result.Took(stepgraph.END, stepgraph.LabelStart)))
	}

	for _, t := range tasks {
		from := ids.of(t.Name)
		if t.IsChoice() {
			for _, c := range t.Choices {
				lines = append(lines, edge(from, ids.target(c.Then), c.Key, result.Took(t.Name, c.Key)))
			}
			continue
		}

		thenTaken := result.Took(t.Name, stepgraph.LabelThen)
		if t.Then == stepgraph.END {
			thenTaken = result.Took(t.Name, stepgraph.LabelEnd)
		}
		lines = append(lines, edge(from, ids.target(t.Then), stepgraph.LabelThen, thenTaken))

		for _, c := range t.Catch {
			lines = append(lines, edge(from, ids.target(c.Then), fmt.Sprintf(catchLabel, c.Pattern),
				result.Took(t.Name, c.Pattern)))
		}
	}

	if traced {
		lines = append(lines, tracedStyle)
	}
	return strings.Join(lines, "\n"+indent)
}

func styled(node string, traced bool) string {
	if traced {
		return node + tracedClass
	}
	return node
}

func edge(from, to, label string, traced bool) string {
	arrow := plainArrow
	if traced {
		arrow = tracedArrow
	}
	return fmt.Sprintf("%s%s|%s|%s", from, arrow, quote(label), to)
}

// quote wraps text for a Mermaid label, escaping embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
}

// idSet assigns each task name a unique Mermaid node id.
type idSet struct {
	byName map[string]string
	used   map[string]bool
}

func newIDs() *idSet {
	return &idSet{
		byName: make(map[string]string),
		used:   map[string]bool{"Start": true, "End": true, "end": true},
	}
}

// target returns the node id for a successor, "End" for END.
func (m *idSet) target(name string) string {
	if name == stepgraph.END {
		return "End"
	}
	return m.of(name)
}

func (m *idSet) of(name string) string {
	if id, ok := m.byName[name]; ok {
		return id
	}

	base := sanitize(name)
	id := base
	for n := 2; m.used[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	m.used[id] = true
	m.byName[name] = id
	return id
}

// sanitize keeps ASCII letters, digits and underscores.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "task"
	}
	return b.String()
}
