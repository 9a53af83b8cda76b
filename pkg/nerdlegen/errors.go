package nerdlegen

import (
	"errors"
	"fmt"
)

// Sentinel errors for enumeration.
var (
	// ErrNilContext indicates Each or Run was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrInvalidLength indicates the candidate length is out of range.
	ErrInvalidLength = errors.New("invalid candidate length")
)

// CancellationError reports where a run stopped when its context ended.
type CancellationError struct {
	// Shard is the checkpoint key of the shard that was being scanned.
	Shard string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled at shard %s: %v", e.Shard, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// CheckpointError wraps a failed checkpoint operation. These are logged,
// never returned from a run.
type CheckpointError struct {
	Shard string
	// Op is "load", "save" or "decode".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint %s for shard %s: %v", e.Op, e.Shard, e.Err)
}

// Unwrap returns the underlying error.
func (e *CheckpointError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised while scanning a shard.
type PanicError struct {
	Shard string
	Value any
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("shard %s panicked: %v", e.Shard, e.Value)
}
