package nerdlegen

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/checkpoint"
)

// The global providers are installed once for the whole test: the
// observability package binds its instruments on first use.
func TestRun_WithMetricsAndTracing(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalMP, originalTP := otel.GetMeterProvider(), otel.GetTracerProvider()
	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetMeterProvider(originalMP)
		otel.SetTracerProvider(originalTP)
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	store := checkpoint.NewMemoryStore()
	defer store.Close()
	opts := []Option{
		WithLength(4),
		WithShardDepth(1),
		WithMetrics(true),
		WithTracing(true),
		WithCheckpointStore(store),
		WithRunID("observed"),
		WithLogger(quietLogger()),
	}

	var out bytes.Buffer
	_, err := New(opts...).Run(testCtx(t), &out)
	require.NoError(t, err)

	// Second run resumes every shard.
	out.Reset()
	_, err = New(opts...).Run(testCtx(t), &out)
	require.NoError(t, err)

	t.Run("metrics", func(t *testing.T) {
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))

		assert.Equal(t, int64(2*CandidateCount(4)), metricSum(t, &rm, "nerdlegen.candidates.scanned"))
		assert.Equal(t, int64(2*274), metricSum(t, &rm, "nerdlegen.matches"))
		assert.Equal(t, int64(2), metricSum(t, &rm, "nerdlegen.runs"))
	})

	t.Run("spans", func(t *testing.T) {
		spans := exporter.GetSpans()

		var runs, shards, resumedEvents int
		for _, s := range spans {
			switch {
			case s.Name == "nerdlegen.run":
				runs++
				assert.Equal(t, codes.Ok, s.Status.Code)
				for _, ev := range s.Events {
					if ev.Name == "shard.resumed" {
						resumedEvents++
					}
				}
			case strings.HasPrefix(s.Name, "nerdlegen.shard."):
				shards++
			}
		}
		assert.Equal(t, 2, runs)
		// Only the first run scans; the second resumes.
		assert.Equal(t, shardCount(1), shards)
		assert.Equal(t, shardCount(1), resumedEvents)
	})
}

func metricSum(t *testing.T, rm *metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return 0
}
