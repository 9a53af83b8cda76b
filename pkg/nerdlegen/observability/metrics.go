package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ShardCounts are the per-shard totals reported to metrics.
type ShardCounts struct {
	Candidates uint64
	Splits     uint64
	Matches    uint64
}

// MetricsRecorder records enumeration metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordShard records a finished shard.
	RecordShard(ctx context.Context, duration time.Duration, counts ShardCounts, resumed bool)

	// RecordRun records a run completion.
	RecordRun(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	candidates   metric.Int64Counter
	splits       metric.Int64Counter
	matches      metric.Int64Counter
	shardLatency metric.Float64Histogram
	runs         metric.Int64Counter
	runLatency   metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("nerdlegen")

	candidates, err := meter.Int64Counter("nerdlegen.candidates.scanned",
		metric.WithDescription("Number of candidate strings generated"),
	)
	if err != nil {
		return nil, err
	}

	splits, err := meter.Int64Counter("nerdlegen.splits.evaluated",
		metric.WithDescription("Number of left/right splits examined"),
	)
	if err != nil {
		return nil, err
	}

	matches, err := meter.Int64Counter("nerdlegen.matches",
		metric.WithDescription("Number of equations emitted"),
	)
	if err != nil {
		return nil, err
	}

	shardLatency, err := meter.Float64Histogram("nerdlegen.shard.latency_ms",
		metric.WithDescription("Shard scan latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("nerdlegen.runs",
		metric.WithDescription("Number of enumeration runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("nerdlegen.run.latency_ms",
		metric.WithDescription("Run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		candidates:   candidates,
		splits:       splits,
		matches:      matches,
		shardLatency: shardLatency,
		runs:         runs,
		runLatency:   runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordShard records a finished shard.
func (m *otelMetrics) RecordShard(ctx context.Context, duration time.Duration, counts ShardCounts, resumed bool) {
	attrs := metric.WithAttributes(attribute.Bool("resumed", resumed))

	m.candidates.Add(ctx, int64(counts.Candidates), attrs)
	m.splits.Add(ctx, int64(counts.Splits), attrs)
	m.matches.Add(ctx, int64(counts.Matches), attrs)
	m.shardLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordRun records a run.
func (m *otelMetrics) RecordRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
