package nerdlegen

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/observability"
)

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithLength sets the candidate length. Default: 8.
// The mini game uses 6.
func WithLength(n int) Option {
	return func(e *Enumerator) {
		e.length = n
	}
}

// WithWorkers sets how many shards are scanned concurrently.
// Default: GOMAXPROCS. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Enumerator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithShardDepth sets the prefix length used to partition the search.
// Depth d gives 14^d shards. Default: 2. Values below 1 are ignored;
// depths above MaxShardDepth or the candidate length are clamped.
func WithShardDepth(d int) Option {
	return func(e *Enumerator) {
		if d > 0 {
			e.shardDepth = min(d, MaxShardDepth)
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics enables OpenTelemetry metrics through the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(e *Enumerator) {
		if enabled {
			e.metrics = observability.NewMetricsRecorder()
		} else {
			e.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans through the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(e *Enumerator) {
		if enabled {
			e.spans = observability.NewSpanManager()
		} else {
			e.spans = observability.NoopSpanManager{}
		}
	}
}

// WithCheckpointStore saves every finished shard to store and reuses
// shards already saved under the same run ID. Requires WithRunID.
func WithCheckpointStore(store checkpoint.Store) Option {
	return func(e *Enumerator) {
		e.store = store
	}
}

// WithRunID sets the run identifier used in logs, spans and checkpoint
// keys. If not set, a UUID is generated per run and checkpoints are
// written but can never be resumed.
func WithRunID(id string) Option {
	return func(e *Enumerator) {
		e.runID = id
	}
}

// WithProgress logs progress every interval. Zero disables it.
func WithProgress(interval time.Duration) Option {
	return func(e *Enumerator) {
		e.progressInterval = interval
	}
}
