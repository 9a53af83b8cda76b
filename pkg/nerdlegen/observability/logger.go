// Package observability provides structured logging, metrics and tracing
// for equation enumeration runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds run context to a logger.
func EnrichLogger(logger *slog.Logger, runID string, length int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("length", length),
	)
}

// LogRunStart logs the start of an enumeration run.
func LogRunStart(logger *slog.Logger, runID string, shards, workers int) {
	if logger == nil {
		return
	}
	logger.Info("enumeration starting",
		slog.String("run_id", runID),
		slog.Int("shards", shards),
		slog.Int("workers", workers),
	)
}

// LogRunComplete logs successful run completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, candidates, matches uint64) {
	if logger == nil {
		return
	}
	logger.Info("enumeration completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Uint64("candidates", candidates),
		slog.Uint64("matches", matches),
	)
}

// LogRunError logs run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("enumeration failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogShardComplete logs a finished shard.
func LogShardComplete(logger *slog.Logger, shard string, durationMs float64, candidates, matches uint64) {
	if logger == nil {
		return
	}
	logger.Debug("shard completed",
		slog.String("shard", shard),
		slog.Float64("duration_ms", durationMs),
		slog.Uint64("candidates", candidates),
		slog.Uint64("matches", matches),
	)
}

// LogShardResumed logs a shard restored from a checkpoint.
func LogShardResumed(logger *slog.Logger, shard string, matches uint64) {
	if logger == nil {
		return
	}
	logger.Debug("shard resumed from checkpoint",
		slog.String("shard", shard),
		slog.Uint64("matches", matches),
	)
}

// LogCheckpointError logs checkpoint failure (non-fatal).
func LogCheckpointError(logger *slog.Logger, shard string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("checkpoint failed",
		slog.String("shard", shard),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogProgress logs periodic progress.
func LogProgress(logger *slog.Logger, done, total int, matches uint64) {
	if logger == nil {
		return
	}
	pct := 0.0
	if total > 0 {
		pct = float64(done) * 100 / float64(total)
	}
	logger.Info("progress",
		slog.Int("shards_done", done),
		slog.Int("shards_total", total),
		slog.Float64("percent", pct),
		slog.Uint64("matches", matches),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
