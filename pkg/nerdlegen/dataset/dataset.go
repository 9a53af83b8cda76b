// Package dataset reads, writes and verifies equation answer lists.
//
// A dataset is a text file with one equation per line, as produced by the
// enumerator ("12+34=46"). The solver data layout keeps the list for the
// 8-character game in data/nerdlegame/possible.txt and the 6-character
// mini game in data/nerdlegame_mini/possible.txt.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// File names used by the solver data layout.
const (
	PossibleFile = "possible.txt"
	ValidFile    = "valid.txt"
)

// maxLineSize bounds a single line; real entries are a dozen bytes.
const maxLineSize = 1 << 20

// Read returns the entries of r that are exactly size characters long,
// sorted and without duplicates. size counts runes including the '='.
// Lines of any other length are skipped.
func Read(r io.Reader, size int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var entries []string
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if utf8.RuneCountInString(line) != size {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	slices.Sort(entries)
	return slices.Compact(entries), nil
}

// ReadFile reads a dataset file. See Read.
func ReadFile(path string, size int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f, size)
}

// Write writes one entry per line.
func Write(w io.Writer, entries []string) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		bw.WriteString(e)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// WriteFileAtomic calls write with a temporary file next to path and
// renames it over path once write and the sync succeed. On failure path
// is left untouched and the temporary file is removed.
func WriteFileAtomic(path string, perm os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename dataset: %w", err)
	}
	committed = true
	return nil
}
