package archive

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory archive for tests and short-lived processes.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedRecord
	seq    int
	closed bool
}

type storedRecord struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedRecord),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(runID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	m.seq++
	m.data[runID] = storedRecord{
		data:      stored,
		sequence:  m.seq,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	rec, ok := m.data[runID]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(rec.data))
	copy(out, rec.data)
	return out, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	type entry struct {
		info Info
		seq  int
	}
	entries := make([]entry, 0, len(m.data))
	for runID, rec := range m.data {
		entries = append(entries, entry{
			info: Info{RunID: runID, Timestamp: rec.timestamp, Size: int64(len(rec.data))},
			seq:  rec.sequence,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	infos := make([]Info, len(entries))
	for i, e := range entries {
		infos[i] = e.info
	}
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of archived runs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
