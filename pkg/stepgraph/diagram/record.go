package diagram

import (
	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
)

// FromRecord rebuilds a Result from an archived record so a stored trace
// can be rendered over its task graph. Payloads stay raw JSON.
func FromRecord(rec *archive.Record) *stepgraph.Result {
	if rec == nil {
		return nil
	}
	result := &stepgraph.Result{
		RunID:       rec.RunID,
		Success:     rec.Success,
		Transitions: make([]stepgraph.Transition, 0, len(rec.Transitions)),
	}
	for _, t := range rec.Transitions {
		tr := stepgraph.Transition{Label: t.Label, From: t.From, To: t.To}
		if len(t.Payload) > 0 {
			tr.Payload = t.Payload
		}
		result.Transitions = append(result.Transitions, tr)
	}
	if n := len(result.Transitions); n > 0 && rec.Success {
		result.Output = result.Transitions[n-1].Payload
	}
	return result
}
