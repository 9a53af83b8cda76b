package checkpoint

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists shard records to a SQLite database. Counts are
// columns so List and Totals never decode the match lists.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

var sqliteSchema = []string{`
	CREATE TABLE IF NOT EXISTS shards (
		run_id      TEXT NOT NULL,
		length      INTEGER NOT NULL,
		prefix      TEXT NOT NULL,
		candidates  INTEGER NOT NULL,
		splits      INTEGER NOT NULL,
		match_count INTEGER NOT NULL,
		matches     TEXT NOT NULL,
		sequence    INTEGER NOT NULL,
		saved_at    TEXT NOT NULL,
		PRIMARY KEY (run_id, length, prefix)
	)`,
	`CREATE INDEX IF NOT EXISTS shards_run_sequence ON shards (run_id, sequence)`,
}

// NewSQLiteStore opens (or creates) a shard store at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(runID string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	matches := rec.Matches
	if matches == nil {
		matches = []string{}
	}
	encoded, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO shards (run_id, length, prefix, candidates, splits, match_count, matches, sequence, saved_at)
		VALUES (
			?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(sequence) FROM shards WHERE run_id = ?), 0) + 1,
			?
		)
		ON CONFLICT(run_id, length, prefix) DO UPDATE SET
			candidates = excluded.candidates,
			splits = excluded.splits,
			match_count = excluded.match_count,
			matches = excluded.matches,
			sequence = (SELECT MAX(sequence) FROM shards WHERE run_id = excluded.run_id) + 1,
			saved_at = excluded.saved_at
	`, runID, rec.Length, rec.Prefix, int64(rec.Candidates), int64(rec.Splits), len(matches), string(encoded),
		runID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save shard: %w", err)
	}
	return nil
}

// Load implements Store. A row whose match list disagrees with its
// match_count column is reported as an error.
func (s *SQLiteStore) Load(runID string, length int, prefix string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Record{}, ErrStoreClosed
	}

	rec := Record{Length: length, Prefix: prefix}
	var candidates, splits int64
	var count int
	var encoded string
	err := s.db.QueryRow(`
		SELECT candidates, splits, match_count, matches FROM shards
		WHERE run_id = ? AND length = ? AND prefix = ?
	`, runID, length, prefix).Scan(&candidates, &splits, &count, &encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load shard: %w", err)
	}

	if err := json.Unmarshal([]byte(encoded), &rec.Matches); err != nil {
		return Record{}, fmt.Errorf("decode matches: %w", err)
	}
	if rec.Matches == nil {
		rec.Matches = []string{}
	}
	if len(rec.Matches) != count {
		return Record{}, fmt.Errorf("shard len%d/%s holds %d matches, match_count says %d", length, prefix, len(rec.Matches), count)
	}
	rec.Candidates, rec.Splits = uint64(candidates), uint64(splits)
	return rec, nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT length, prefix, candidates, splits, match_count, sequence, saved_at
		FROM shards
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list shards: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		info := Info{RunID: runID}
		var candidates, splits int64
		var savedAt string
		if err := rows.Scan(&info.Length, &info.Prefix, &candidates, &splits, &info.Matches, &info.Sequence, &savedAt); err != nil {
			return nil, fmt.Errorf("scan shard info: %w", err)
		}
		info.Candidates, info.Splits = uint64(candidates), uint64(splits)
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shards: %w", err)
	}
	return infos, nil
}

// Totals implements Store.
func (s *SQLiteStore) Totals(runID string, length int) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Totals{}, ErrStoreClosed
	}

	var t Totals
	var candidates, splits, matches int64
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(candidates), 0), COALESCE(SUM(splits), 0), COALESCE(SUM(match_count), 0)
		FROM shards
		WHERE run_id = ? AND length = ?
	`, runID, length).Scan(&t.Shards, &candidates, &splits, &matches)
	if err != nil {
		return Totals{}, fmt.Errorf("sum shards: %w", err)
	}
	t.Candidates, t.Splits, t.Matches = uint64(candidates), uint64(splits), uint64(matches)
	return t, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(runID string, length int, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.Exec(`DELETE FROM shards WHERE run_id = ? AND length = ? AND prefix = ?`, runID, length, prefix)
	if err != nil {
		return fmt.Errorf("delete shard: %w", err)
	}
	return nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, err := s.db.Exec(`DELETE FROM shards WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run shards: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
