// Package checkpoint persists completed enumeration shards so an
// interrupted run can resume without rescanning them.
package checkpoint

import (
	"errors"
	"fmt"
	"time"
)

// Record is the saved outcome of one shard: every candidate of Length
// characters that starts with Prefix.
type Record struct {
	Length     int
	Prefix     string
	Candidates uint64
	Splits     uint64
	// Matches holds "left=right" lines in enumeration order.
	Matches []string
}

// Validate rejects records that cannot identify a shard.
func (r Record) Validate() error {
	if r.Prefix == "" {
		return fmt.Errorf("%w: empty prefix", ErrInvalidRecord)
	}
	if r.Length < len(r.Prefix) {
		return fmt.Errorf("%w: prefix %q longer than length %d", ErrInvalidRecord, r.Prefix, r.Length)
	}
	if uint64(len(r.Matches)) > r.Splits {
		return fmt.Errorf("%w: %d matches from %d splits", ErrInvalidRecord, len(r.Matches), r.Splits)
	}
	return nil
}

// Store persists shard records keyed by run, length and prefix.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a shard record.
	// Overwrites if the shard already exists for the run.
	Save(runID string, rec Record) error

	// Load retrieves a shard record.
	// Returns ErrNotFound if the shard has not been saved.
	Load(runID string, length int, prefix string) (Record, error)

	// List returns all saved shards for a run, ordered by save sequence.
	// Returns empty slice (not error) if the run has none.
	List(runID string) ([]Info, error)

	// Totals sums the saved shards of a run at one length.
	Totals(runID string, length int) (Totals, error)

	// Delete removes one shard record.
	// Returns nil if it doesn't exist.
	Delete(runID string, length int, prefix string) error

	// DeleteRun removes every shard record of a run.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a saved shard without loading its matches.
type Info struct {
	RunID      string
	Length     int
	Prefix     string
	Candidates uint64
	Splits     uint64
	Matches    int
	Sequence   int
	SavedAt    time.Time
}

// Totals aggregates the saved shards of a run.
type Totals struct {
	Shards     int
	Candidates uint64
	Splits     uint64
	Matches    uint64
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates a shard record doesn't exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")

	// ErrInvalidRecord is returned by Save for a record failing Validate.
	ErrInvalidRecord = errors.New("invalid checkpoint record")
)
