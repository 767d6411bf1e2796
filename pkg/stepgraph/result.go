package stepgraph

import (
	"encoding/json"
	"maps"
)

// Transition labels that are not catch patterns or choice keys.
const (
	LabelStart = "(start)"
	LabelEnd   = "(end)"
	LabelThen  = "then"
)

// Transition is one recorded hand-off between tasks.
//
// Label is "then", a matched catch pattern, a choice key, LabelStart or
// LabelEnd. From is empty on the start transition and To is END on the
// terminating one. Payload is the value handed to To, or the final output
// when To is END.
type Transition struct {
	Label   string `json:"label"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Vars is the key/value store shared by every step of one run.
// It is not synchronised: only the single running step touches it.
type Vars map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	maps.Copy(out, v)
	return out
}

// CatchInput is the payload handed to a catch target, and the output of a
// run whose catch rule points at END. Key is the matched pattern.
type CatchInput struct {
	Key string
	Err error
}

// MarshalJSON encodes the error by its message.
func (c CatchInput) MarshalJSON() ([]byte, error) {
	msg := ""
	if c.Err != nil {
		msg = c.Err.Error()
	}
	return json.Marshal(struct {
		Key   string `json:"key"`
		Error string `json:"error"`
	}{Key: c.Key, Error: msg})
}

// Result is the outcome of one execution.
type Result struct {
	RunID       string
	Success     bool
	Transitions []Transition
	Output      any
	Vars        Vars
}

// Path returns the names of the tasks entered, in order, repeats included.
func (r *Result) Path() []string {
	if r == nil {
		return nil
	}
	var path []string
	for _, t := range r.Transitions {
		if t.To != END {
			path = append(path, t.To)
		}
	}
	return path
}

// Visited reports whether the run entered the named task.
func (r *Result) Visited(name string) bool {
	if r == nil {
		return false
	}
	for _, t := range r.Transitions {
		if t.To == name && name != END {
			return true
		}
	}
	return false
}

// Took reports whether the run left from via the given label.
func (r *Result) Took(from, label string) bool {
	if r == nil {
		return false
	}
	for _, t := range r.Transitions {
		if t.From == from && t.Label == label {
			return true
		}
	}
	return false
}

// Ended reports whether the trace reaches END. Only an activity's Then
// edge is labelled LabelEnd; a choice key or catch pattern routed to END
// keeps its own label, so test for completion with Ended rather than by
// label.
func (r *Result) Ended() bool {
	if r == nil || len(r.Transitions) == 0 {
		return false
	}
	last := r.Transitions[len(r.Transitions)-1]
	return last.To == END && last.Label != LabelStart
}
