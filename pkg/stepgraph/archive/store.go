// Package archive stores finished run traces for post-mortem inspection.
//
// A record is written once per run, after the run has finished. Records are
// read back to render the executed path of a workflow; nothing resumes from
// them.
package archive

import (
	"errors"
	"time"
)

// Store persists archived runs.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the encoded record for a run.
	// Overwrites if a record for runID already exists.
	Save(runID string, data []byte) error

	// Load retrieves an encoded record.
	// Returns ErrNotFound if no record exists for runID.
	Load(runID string) ([]byte, error)

	// List returns metadata for all archived runs, oldest first.
	// Returns an empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a run's record.
	// Returns nil if the record doesn't exist.
	Delete(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes an archived run without loading it.
type Info struct {
	RunID     string
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for archive operations.
var (
	// ErrNotFound indicates no record exists for the run.
	ErrNotFound = errors.New("archived run not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("archive store closed")
)
