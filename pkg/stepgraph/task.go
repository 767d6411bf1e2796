package stepgraph

// END is the end pointer.
// A successor reference equal to END terminates the workflow. Task names
// must be non-empty, so END never collides with a task name and the zero
// value of Task.Then means "end here".
const END = ""

// Kind discriminates the two task variants.
type Kind int

const (
	// KindActivity performs work and moves on via Then or a catch rule.
	KindActivity Kind = iota
	// KindChoice inspects its own output to pick a branch.
	KindChoice
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// StepFunc is the signature of every task function.
//
// Returning a nil error signals success with the returned value. Returning
// an error signals failure; activities may route failures through their
// catch rules. The shared key/value store is available as ctx.Vars().
type StepFunc func(ctx Context, input any) (any, error)

// CatchRule routes a failure whose description matches Pattern to Then.
type CatchRule struct {
	Pattern string
	Then    string
}

// ChoiceRule maps a choice key to a successor.
type ChoiceRule struct {
	Key  string
	Then string
}

// Task is one named step of the graph.
//
// Activities use Then and Catch. Choices use Choices. Successors are names
// resolved when the engine follows them, so a dangling name only fails the
// run that actually reaches it.
type Task struct {
	Name  string
	Kind  Kind
	Start bool
	Fn    StepFunc

	// Activity
	Then  string
	Catch []CatchRule

	// Choice
	Choices []ChoiceRule
}

// IsActivity reports whether the task is an activity.
func (t Task) IsActivity() bool { return t.Kind == KindActivity }

// IsChoice reports whether the task is a choice.
func (t Task) IsChoice() bool { return t.Kind == KindChoice }

// Route returns the successor mapped to a choice key.
func (t Task) Route(key string) (string, bool) {
	for _, c := range t.Choices {
		if c.Key == key {
			return c.Then, true
		}
	}
	return "", false
}

// MatchCatch returns the first catch rule whose pattern matches desc.
// Rules are tried in declaration order; the first match wins even when a
// later pattern is more specific.
func (t Task) MatchCatch(desc string) (CatchRule, bool) {
	for _, c := range t.Catch {
		if MatchPattern(c.Pattern, desc) {
			return c, true
		}
	}
	return CatchRule{}, false
}

// Successors returns every name the task may hand control to, in
// declaration order, END excluded.
func (t Task) Successors() []string {
	var out []string
	switch t.Kind {
	case KindActivity:
		if t.Then != END {
			out = append(out, t.Then)
		}
		for _, c := range t.Catch {
			if c.Then != END {
				out = append(out, c.Then)
			}
		}
	case KindChoice:
		for _, c := range t.Choices {
			if c.Then != END {
				out = append(out, c.Then)
			}
		}
	}
	return out
}

// Tasks is the flat, ordered task list consumed by Run.
// It is treated as read-only once handed to the engine.
type Tasks []Task

// Lookup finds a task by name. The first task with that name wins.
func (ts Tasks) Lookup(name string) (Task, bool) {
	if name == END {
		return Task{}, false
	}
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return Task{}, false
}

// StartTask returns the first task flagged Start, or the first task.
func (ts Tasks) StartTask() (Task, bool) {
	for _, t := range ts {
		if t.Start {
			return t, true
		}
	}
	if len(ts) == 0 {
		return Task{}, false
	}
	return ts[0], true
}

// Names returns the task names in order.
func (ts Tasks) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Dedupe returns a copy without later duplicates of a name.
// The first occurrence of each name is kept, order preserved.
func (ts Tasks) Dedupe() Tasks {
	seen := make(map[string]bool, len(ts))
	out := make(Tasks, 0, len(ts))
	for _, t := range ts {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}
