package nerdlegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/expr"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/observability"
)

// cancelCheckMask sets how often a shard scan polls its context:
// every 64Ki candidates.
const cancelCheckMask = 1<<16 - 1

// shardResult holds the outcome of one shard, matches in enumeration order.
type shardResult struct {
	prefix     string
	candidates uint64
	splits     uint64
	matches    []Match
	resumed    bool
}

func (r *shardResult) counts() observability.ShardCounts {
	return observability.ShardCounts{
		Candidates: r.candidates,
		Splits:     r.splits,
		Matches:    uint64(len(r.matches)),
	}
}

// processShard returns the shard's result, from the checkpoint store if
// it holds one, otherwise by scanning.
func (e *Enumerator) processShard(ctx context.Context, runID string, logger *slog.Logger, sh shard) (res *shardResult, err error) {
	key := sh.key(e.length)

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &PanicError{Shard: key, Value: r, Stack: string(debug.Stack())}
		}
	}()

	if res, ok := e.loadShard(runID, sh, logger); ok {
		observability.LogShardResumed(logger, key, uint64(len(res.matches)))
		e.spans.AddSpanEvent(ctx, "shard.resumed", attribute.String("shard", key))
		e.metrics.RecordShard(ctx, 0, res.counts(), true)
		return res, nil
	}

	start := time.Now()
	sctx, span := e.spans.StartShardSpan(ctx, string(sh.prefix))
	res, err = scanShard(sctx, sh, e.length)
	e.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	e.metrics.RecordShard(ctx, elapsed, res.counts(), false)
	observability.LogShardComplete(logger, key, float64(elapsed.Milliseconds()), res.candidates, uint64(len(res.matches)))
	e.saveShard(runID, sh, res, logger)
	return res, nil
}

// scanShard enumerates every candidate of the shard.
func scanShard(ctx context.Context, sh shard, length int) (*shardResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancellationError{Shard: sh.key(length), Cause: err}
	}

	res := &shardResult{prefix: string(sh.prefix)}
	var cancelled error
	scanPrefix(sh.prefix, length, func(buf []byte) bool {
		res.candidates++
		if res.candidates&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				cancelled = err
				return false
			}
		}
		scanCandidate(buf, res)
		return true
	})
	if cancelled != nil {
		return nil, &CancellationError{Shard: sh.key(length), Cause: cancelled}
	}
	return res, nil
}

// scanCandidate applies the candidate filter, then checks every split.
func scanCandidate(buf []byte, res *shardResult) {
	n := len(buf)
	// Every left part starts with buf[0] and every right part ends with
	// buf[n-1]; an operator there rejects all splits.
	if IsOperator(buf[0]) || IsOperator(buf[n-1]) {
		return
	}
	for i := 1; i < n; i++ {
		if IsOperator(buf[i]) && IsOperator(buf[i-1]) {
			return
		}
	}

	candidate := string(buf)
	for i := 1; i <= n-2; i++ {
		res.splits++
		if m, ok := checkSplit(candidate[:i], candidate[i:]); ok {
			res.matches = append(res.matches, m)
		}
	}
}

// shardRecord converts a scanned result to its checkpoint form.
func shardRecord(length int, res *shardResult) checkpoint.Record {
	rec := checkpoint.Record{
		Length:     length,
		Prefix:     res.prefix,
		Candidates: res.candidates,
		Splits:     res.splits,
		Matches:    make([]string, len(res.matches)),
	}
	for i, m := range res.matches {
		rec.Matches[i] = m.String()
	}
	return rec
}

// resultFromRecord rebuilds a shard result, rejecting records that do
// not cover the whole shard or hold lines that are not equations.
func resultFromRecord(rec checkpoint.Record) (*shardResult, error) {
	if want := CandidateCount(rec.Length - len(rec.Prefix)); rec.Candidates != want {
		return nil, fmt.Errorf("record covers %d candidates, want %d", rec.Candidates, want)
	}
	res := &shardResult{
		prefix:     rec.Prefix,
		candidates: rec.Candidates,
		splits:     rec.Splits,
		matches:    make([]Match, 0, len(rec.Matches)),
		resumed:    true,
	}
	for _, line := range rec.Matches {
		left, right, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("malformed match %q", line)
		}
		v, err := expr.Eval(left)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", line, err)
		}
		res.matches = append(res.matches, Match{Left: left, Right: right, Value: v})
	}
	return res, nil
}

// loadShard returns a checkpointed result when resuming a named run.
// Any failure falls back to scanning.
func (e *Enumerator) loadShard(runID string, sh shard, logger *slog.Logger) (*shardResult, bool) {
	if e.store == nil || e.runID == "" {
		return nil, false
	}
	key := sh.key(e.length)
	rec, err := e.store.Load(runID, e.length, string(sh.prefix))
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		observability.LogCheckpointError(logger, key, "load", &CheckpointError{Shard: key, Op: "load", Err: err})
		return nil, false
	}
	res, err := resultFromRecord(rec)
	if err != nil {
		observability.LogCheckpointError(logger, key, "decode", &CheckpointError{Shard: key, Op: "decode", Err: err})
		return nil, false
	}
	return res, true
}

// saveShard stores a scanned result. Failures are logged only.
func (e *Enumerator) saveShard(runID string, sh shard, res *shardResult, logger *slog.Logger) {
	if e.store == nil {
		return
	}
	key := sh.key(e.length)
	if err := e.store.Save(runID, shardRecord(e.length, res)); err != nil {
		observability.LogCheckpointError(logger, key, "save", &CheckpointError{Shard: key, Op: "save", Err: err})
	}
}
