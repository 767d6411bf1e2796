package archive

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the current record format version.
const Version = 1

// Record is the persisted trace of one finished run.
type Record struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	Workflow  string    `json:"workflow,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Task      string    `json:"task,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Transitions []Transition `json:"transitions"`
}

// Transition is one archived step of the trace. Payloads that cannot be
// encoded as JSON are stored as their fmt representation.
type Transition struct {
	Label   string          `json:"label"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New creates a record for runID stamped with the current time.
func New(runID, workflow string, success bool) *Record {
	return &Record{
		Version:   Version,
		RunID:     runID,
		Workflow:  workflow,
		Success:   success,
		Timestamp: time.Now().UTC(),
	}
}

// WithError records the run's failure.
func (r *Record) WithError(task string, err error) *Record {
	r.Task = task
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Add appends a transition, encoding payload as JSON.
func (r *Record) Add(label, from, to string, payload any) {
	r.Transitions = append(r.Transitions, Transition{
		Label:   label,
		From:    from,
		To:      to,
		Payload: encodePayload(payload),
	})
}

// Took reports whether the archived trace contains a transition labelled
// label out of from.
func (r *Record) Took(from, label string) bool {
	for _, t := range r.Transitions {
		if t.From == from && t.Label == label {
			return true
		}
	}
	return false
}

// Visited reports whether the archived trace entered task name.
func (r *Record) Visited(name string) bool {
	for _, t := range r.Transitions {
		if t.To == name {
			return true
		}
	}
	return false
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version > Version {
		return nil, fmt.Errorf("unsupported record version %d", r.Version)
	}
	return &r, nil
}

// SaveRecord encodes and saves rec, returning the encoded size.
func SaveRecord(s Store, rec *Record) (int, error) {
	data, err := rec.Marshal()
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}
	if err := s.Save(rec.RunID, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// LoadRecord loads and decodes the record for runID.
func LoadRecord(s Store, runID string) (*Record, error) {
	data, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	rec, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", runID, err)
	}
	return rec, nil
}

func encodePayload(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	return data
}
