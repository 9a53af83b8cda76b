package checkpoint

import (
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps shard records in memory. Data is lost when the
// process exits; it is meant for tests and single-process retries.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]map[shardID]entry // runID -> shard -> entry
	seq    map[string]int               // runID -> last sequence
	closed bool
}

type shardID struct {
	length int
	prefix string
}

type entry struct {
	rec      Record
	sequence int
	savedAt  time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]map[shardID]entry),
		seq:  make(map[string]int),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(runID string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if m.runs[runID] == nil {
		m.runs[runID] = make(map[shardID]entry)
	}
	m.seq[runID]++

	rec.Matches = append([]string{}, rec.Matches...)
	m.runs[runID][shardID{rec.Length, rec.Prefix}] = entry{
		rec:      rec,
		sequence: m.seq[runID],
		savedAt:  time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID string, length int, prefix string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}
	e, ok := m.runs[runID][shardID{length, prefix}]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := e.rec
	rec.Matches = append([]string{}, e.rec.Matches...)
	return rec, nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	run := m.runs[runID]
	infos := make([]Info, 0, len(run))
	for _, e := range run {
		infos = append(infos, Info{
			RunID:      runID,
			Length:     e.rec.Length,
			Prefix:     e.rec.Prefix,
			Candidates: e.rec.Candidates,
			Splits:     e.rec.Splits,
			Matches:    len(e.rec.Matches),
			Sequence:   e.sequence,
			SavedAt:    e.savedAt,
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return a.Sequence - b.Sequence
	})
	return infos, nil
}

// Totals implements Store.
func (m *MemoryStore) Totals(runID string, length int) (Totals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Totals{}, ErrStoreClosed
	}

	var t Totals
	for id, e := range m.runs[runID] {
		if id.length != length {
			continue
		}
		t.Shards++
		t.Candidates += e.rec.Candidates
		t.Splits += e.rec.Splits
		t.Matches += uint64(len(e.rec.Matches))
	}
	return t, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(runID string, length int, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.runs[runID], shardID{length, prefix})
	return nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.runs, runID)
	delete(m.seq, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	m.seq = nil
	return nil
}

// Len returns the number of stored shards across all runs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, run := range m.runs {
		n += len(run)
	}
	return n
}
