package nerdlegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/expr"
)

func TestNew_Defaults(t *testing.T) {
	e := New()
	assert.Equal(t, DefaultLength, e.Length())
	assert.Equal(t, 2, e.shardDepth)
	assert.Positive(t, e.workers)
	assert.NotNil(t, e.logger)
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	e := New(WithWorkers(0), WithShardDepth(-1), WithLogger(nil))
	assert.Positive(t, e.workers)
	assert.Equal(t, 2, e.shardDepth)
	assert.NotNil(t, e.logger)
}

func TestRun_Golden(t *testing.T) {
	for length := 3; length <= 6; length++ {
		t.Run(fmt.Sprintf("length %d", length), func(t *testing.T) {
			if length == 6 && testing.Short() {
				t.Skip("length 6 scans 7.5M candidates")
			}
			want := golden[length]
			out, stats := runOutput(t, WithLength(length))

			assert.Equal(t, want.matches, stats.Matches)
			assert.Equal(t, int(want.matches), strings.Count(out, "\n"))
			assert.Equal(t, want.sha256, digest(out))
			assert.Equal(t, CandidateCount(length), stats.Candidates)
		})
	}
}

func TestRun_LengthFourHead(t *testing.T) {
	out, _ := runOutput(t, WithLength(4))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 274)
	assert.Equal(t, []string{"11=11", "1=1+0", "1=1-0", "1=1*1", "1=1/1", "12=12", "1=2-1"}, lines[:7])
	assert.Equal(t, "0=0/9", lines[len(lines)-1])
}

func TestRun_MatchesSequentialReference(t *testing.T) {
	for _, length := range []int{4, 5} {
		want := sequentialOutput(length)
		for _, workers := range []int{1, 4} {
			for depth := 1; depth <= 3; depth++ {
				name := fmt.Sprintf("len=%d/workers=%d/depth=%d", length, workers, depth)
				t.Run(name, func(t *testing.T) {
					got, stats := runOutput(t,
						WithLength(length),
						WithWorkers(workers),
						WithShardDepth(depth),
					)
					assert.Equal(t, want, got)
					assert.Equal(t, shardCount(depth), stats.Shards)
					assert.Zero(t, stats.Resumed)
				})
			}
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	e := New(WithLength(5), WithWorkers(8), WithLogger(quietLogger()))
	var first, second bytes.Buffer

	s1, err := e.Run(testCtx(t), &first)
	require.NoError(t, err)
	s2, err := e.Run(testCtx(t), &second)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, s1.Matches, s2.Matches)
	assert.Equal(t, s1.Splits, s2.Splits)
}

func TestRun_ShardDepthBeyondLength(t *testing.T) {
	out, stats := runOutput(t, WithLength(3), WithShardDepth(5))
	assert.Empty(t, out)
	assert.Equal(t, shardCount(3), stats.Shards)
}

func TestWithShardDepth_ClampsToMax(t *testing.T) {
	for _, d := range []int{MaxShardDepth, MaxShardDepth + 1, 7, 1 << 20} {
		assert.Equal(t, MaxShardDepth, New(WithShardDepth(d)).shardDepth, "depth %d", d)
	}

	out, stats := runOutput(t, WithLength(5), WithShardDepth(5))
	assert.Equal(t, shardCount(MaxShardDepth), stats.Shards)
	assert.Equal(t, golden[5].sha256, digest(out))
}

func TestEach_Order(t *testing.T) {
	var got []Match
	_, err := New(WithLength(4), WithLogger(quietLogger())).Each(testCtx(t), func(m Match) error {
		got = append(got, m)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 274)

	assert.Equal(t, Match{Left: "11", Right: "11"}.String(), got[0].String())
	assert.Equal(t, int64(11), got[0].Value.Int64())
	assert.Equal(t, "1=1/1", got[4].String())
	assert.False(t, got[4].Value.IsFloat(), "value is taken from the left side")
	assert.True(t, expr.MustEval(got[4].Right).IsFloat())
}

func TestEach_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := New().Each(nil, func(Match) error { return nil })
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestEach_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 2, 12} {
		_, err := New(WithLength(n)).Each(context.Background(), func(Match) error { return nil })
		assert.ErrorIs(t, err, ErrInvalidLength, "length %d", n)
	}
}

func TestEach_CallbackErrorStopsRun(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0

	stats, err := New(WithLength(5), WithWorkers(4), WithLogger(quietLogger())).Each(testCtx(t), func(Match) error {
		calls++
		if calls == 3 {
			return errStop
		}
		return nil
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 3, calls)
	assert.Less(t, stats.Shards, shardCount(2))
}

func TestEach_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithLogger(quietLogger())).Each(ctx, func(Match) error {
		t.Fatal("no match expected")
		return nil
	})

	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, strings.HasPrefix(cancelErr.Shard, "len8/"))
}

func TestEach_CancelMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx(t))
	defer cancel()

	e := New(WithLength(7), WithShardDepth(3), WithWorkers(2), WithLogger(quietLogger()))
	stats, err := e.Each(ctx, func(Match) error {
		cancel()
		return nil
	})

	var cancelErr *CancellationError
	require.ErrorAs(t, err, &cancelErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, stats.Shards, shardCount(3))
}

func TestRun_Deadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	_, err := New(WithWorkers(2), WithLogger(quietLogger())).Run(ctx, &out)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRun_WriteError(t *testing.T) {
	_, err := New(WithLength(6), WithLogger(quietLogger())).Run(testCtx(t), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRun_ResumeFromCheckpoint(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	first, s1 := runOutput(t, WithLength(5), WithCheckpointStore(store), WithRunID("resume"))
	assert.Zero(t, s1.Resumed)
	assert.Equal(t, shardCount(2), store.Len())

	second, s2 := runOutput(t, WithLength(5), WithCheckpointStore(store), WithRunID("resume"))
	assert.Equal(t, first, second)
	assert.Equal(t, s2.Shards, s2.Resumed)
	assert.Equal(t, s1.Candidates, s2.Candidates)
	assert.Equal(t, s1.Splits, s2.Splits)
	assert.Equal(t, s1.Matches, s2.Matches)
}

func TestRun_ResumeRequiresRunID(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	runOutput(t, WithLength(4), WithCheckpointStore(store))
	_, stats := runOutput(t, WithLength(4), WithCheckpointStore(store))
	assert.Zero(t, stats.Resumed)
	assert.Equal(t, 2*shardCount(2), store.Len())
}

func TestRun_CorruptCheckpointRescans(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	want, _ := runOutput(t, WithLength(5), WithCheckpointStore(store), WithRunID("r1"))
	require.NoError(t, store.Save("r1", checkpoint.Record{Length: 5, Prefix: "11", Candidates: 10, Splits: 1}))
	require.NoError(t, store.Save("r1", checkpoint.Record{
		Length: 5, Prefix: "12", Candidates: CandidateCount(3), Splits: 1,
		Matches: []string{"no equals sign"},
	}))

	logger, logs := bufferLogger()
	var out bytes.Buffer
	stats, err := New(
		WithLength(5),
		WithCheckpointStore(store),
		WithRunID("r1"),
		WithLogger(logger),
	).Run(testCtx(t), &out)

	require.NoError(t, err)
	assert.Equal(t, want, out.String())
	assert.Equal(t, shardCount(2)-2, stats.Resumed)

	warnings := logEntries(t, logs, "checkpoint failed")
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, "decode", w["operation"])
	}

	// Rescanned shards are saved again.
	rec, err := store.Load("r1", 5, "11")
	require.NoError(t, err)
	assert.Equal(t, CandidateCount(3), rec.Candidates)

	totals, err := store.Totals("r1", 5)
	require.NoError(t, err)
	assert.Equal(t, shardCount(2), totals.Shards)
	assert.Equal(t, golden[5].matches, totals.Matches)
}

func TestRun_CheckpointSaveFailureIsNotFatal(t *testing.T) {
	store := failingStore{MemoryStore: checkpoint.NewMemoryStore(), err: errors.New("read-only")}
	logger, logs := bufferLogger()

	var out bytes.Buffer
	stats, err := New(WithLength(4), WithCheckpointStore(store), WithLogger(logger)).Run(testCtx(t), &out)

	require.NoError(t, err)
	assert.Equal(t, golden[4].matches, stats.Matches)
	assert.Len(t, logEntries(t, logs, "checkpoint failed"), shardCount(2))
}

func TestRun_PanicIsReturned(t *testing.T) {
	store := panicStore{MemoryStore: checkpoint.NewMemoryStore()}

	var out bytes.Buffer
	_, err := New(
		WithLength(4),
		WithCheckpointStore(store),
		WithRunID("boom"),
		WithLogger(quietLogger()),
	).Run(testCtx(t), &out)

	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "store exploded", panicErr.Value)
	assert.True(t, strings.HasPrefix(panicErr.Shard, "len4/"))
	assert.NotEmpty(t, panicErr.Stack)
}

func TestRun_LogsLifecycle(t *testing.T) {
	logger, logs := bufferLogger()

	var out bytes.Buffer
	_, err := New(WithLength(4), WithRunID("logged"), WithLogger(logger)).Run(testCtx(t), &out)
	require.NoError(t, err)

	started := logEntries(t, logs, "enumeration starting")
	require.Len(t, started, 1)
	assert.Equal(t, "logged", started[0]["run_id"])
	assert.EqualValues(t, 196, started[0]["shards"])

	completed := logEntries(t, logs, "enumeration completed")
	require.Len(t, completed, 1)
	assert.EqualValues(t, 274, completed[0]["matches"])
	assert.EqualValues(t, 4, completed[0]["length"])

	assert.Len(t, logEntries(t, logs, "shard completed"), 196)
}

func TestRun_Progress(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a run long enough for the ticker")
	}
	logger, logs := bufferLogger()

	var out bytes.Buffer
	_, err := New(
		WithLength(6),
		WithWorkers(1),
		WithProgress(time.Millisecond),
		WithLogger(logger),
	).Run(testCtx(t), &out)
	require.NoError(t, err)

	progress := logEntries(t, logs, "progress")
	require.NotEmpty(t, progress)
	for _, p := range progress {
		assert.EqualValues(t, 196, p["shards_total"])
		assert.LessOrEqual(t, p["percent"], 100.0)
	}
}
