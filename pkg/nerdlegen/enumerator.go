package nerdlegen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/observability"
)

// Length bounds accepted by the enumerator.
const (
	DefaultLength = 8
	MinLength     = 3
	MaxLength     = 11
)

// MaxShardDepth bounds WithShardDepth. Each shard holds a result slot and
// a ready channel for the whole run.
const MaxShardDepth = 4

// Enumerator searches the candidate space for equations.
// An Enumerator is immutable after New and may run any number of times;
// every run produces the same output.
type Enumerator struct {
	length           int
	workers          int
	shardDepth       int
	logger           *slog.Logger
	metrics          observability.MetricsRecorder
	spans            observability.SpanManager
	store            checkpoint.Store
	runID            string
	progressInterval time.Duration
}

// Stats summarises a run.
type Stats struct {
	// Candidates is the number of candidate strings generated.
	Candidates uint64
	// Splits is the number of splits examined after the candidate-level filters.
	Splits uint64
	// Matches is the number of equations emitted.
	Matches uint64
	// Shards is the number of prefix shards consumed.
	Shards int
	// Resumed is how many of those shards came from the checkpoint store.
	Resumed int
	// Duration is the wall-clock run time.
	Duration time.Duration
}

// New creates an Enumerator with the given options.
func New(opts ...Option) *Enumerator {
	e := &Enumerator{
		length:     DefaultLength,
		workers:    runtime.GOMAXPROCS(0),
		shardDepth: 2,
		logger:     slog.Default(),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Length returns the configured candidate length.
func (e *Enumerator) Length() int {
	return e.length
}

// Run writes every match to w as "left=right\n", in enumeration order.
func (e *Enumerator) Run(ctx context.Context, w io.Writer) (Stats, error) {
	bw := bufio.NewWriterSize(w, 64<<10)
	stats, err := e.Each(ctx, func(m Match) error {
		// bufio errors are sticky; the last write reports any earlier failure.
		bw.WriteString(m.Left)
		bw.WriteByte('=')
		bw.WriteString(m.Right)
		return bw.WriteByte('\n')
	})
	if flushErr := bw.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("flush output: %w", flushErr)
	}
	return stats, err
}

// Each calls fn for every match in enumeration order. Shards are scanned
// concurrently but fn is always called from the calling goroutine, one
// match at a time. An error from fn stops the run and is returned as is.
func (e *Enumerator) Each(ctx context.Context, fn func(Match) error) (Stats, error) {
	if ctx == nil {
		return Stats{}, ErrNilContext
	}
	if e.length < MinLength || e.length > MaxLength {
		return Stats{}, fmt.Errorf("%w: %d outside %d..%d", ErrInvalidLength, e.length, MinLength, MaxLength)
	}

	runID := e.runID
	if runID == "" {
		runID = uuid.New().String()
	}
	depth := min(e.shardDepth, e.length)
	total := shardCount(depth)
	logger := observability.EnrichLogger(e.logger, runID, e.length)

	start := time.Now()
	ctx, span := e.spans.StartRunSpan(ctx, runID, e.length)
	observability.LogRunStart(logger, runID, total, e.workers)

	stats, err := e.run(ctx, runID, logger, depth, total, fn)
	stats.Duration = time.Since(start)

	e.spans.EndSpanWithError(span, err)
	e.metrics.RecordRun(ctx, err == nil, stats.Duration)
	durationMs := float64(stats.Duration.Milliseconds())
	if err != nil {
		observability.LogRunError(logger, runID, err, durationMs)
		return stats, err
	}
	observability.LogRunComplete(logger, runID, durationMs, stats.Candidates, stats.Matches)
	return stats, nil
}

// run scans shards on a bounded worker pool and hands their matches to
// fn strictly in shard order.
func (e *Enumerator) run(
	parent context.Context,
	runID string,
	logger *slog.Logger,
	depth, total int,
	fn func(Match) error,
) (Stats, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	results := make([]*shardResult, total)
	ready := make([]chan struct{}, total)
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	var progress progressCounter
	stopProgress := e.startProgress(logger, total, &progress)
	defer stopProgress()

	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i := 0; i < total; i++ {
			if gctx.Err() != nil {
				return
			}
			sh := shardAt(i, depth)
			g.Go(func() error {
				res, err := e.processShard(gctx, runID, logger, sh)
				if err != nil {
					return err
				}
				results[sh.index] = res
				close(ready[sh.index])
				progress.add(res)
				return nil
			})
		}
	}()

	var stats Stats
	var consumeErr error
	next := 0
consume:
	for ; next < total; next++ {
		select {
		case <-ready[next]:
		case <-gctx.Done():
			break consume
		}

		res := results[next]
		results[next] = nil
		stats.add(res)
		for _, m := range res.matches {
			if err := fn(m); err != nil {
				consumeErr = err
				cancel()
				break consume
			}
		}
	}

	<-dispatched
	workErr := g.Wait()

	switch {
	case consumeErr != nil:
		return stats, consumeErr
	case workErr != nil:
		return stats, workErr
	case next < total:
		// Cancelled between shards: no worker observed it.
		return stats, &CancellationError{
			Shard: shardAt(next, depth).key(e.length),
			Cause: ctx.Err(),
		}
	}
	return stats, nil
}

func (s *Stats) add(res *shardResult) {
	s.Candidates += res.candidates
	s.Splits += res.splits
	s.Matches += uint64(len(res.matches))
	s.Shards++
	if res.resumed {
		s.Resumed++
	}
}

// progressCounter is updated by workers and read by the progress logger.
type progressCounter struct {
	shards  atomic.Int64
	matches atomic.Uint64
}

func (p *progressCounter) add(res *shardResult) {
	p.shards.Add(1)
	p.matches.Add(uint64(len(res.matches)))
}

// startProgress logs progress periodically until the returned stop
// function is called. The stop function waits for the logger goroutine.
func (e *Enumerator) startProgress(logger *slog.Logger, total int, p *progressCounter) func() {
	if e.progressInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(e.progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				observability.LogProgress(logger, int(p.shards.Load()), total, p.matches.Load())
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
