package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/config"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/observability"
)

// setupTelemetry installs the global OTel providers the settings ask for.
// The returned function logs the collected metrics and shuts the
// providers down.
func setupTelemetry(s config.Settings, logger *slog.Logger) func(context.Context) error {
	var shutdowns []func(context.Context) error

	if s.Metrics {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, func(ctx context.Context) error {
			var rm metricdata.ResourceMetrics
			if err := reader.Collect(ctx, &rm); err != nil {
				return fmt.Errorf("collect metrics: %w", err)
			}
			logMetrics(logger, &rm)
			return mp.Shutdown(ctx)
		})
	}

	if s.Tracing {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(observability.NewLogSpanProcessor(logger)),
		)
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	return func(ctx context.Context) error {
		// Shutdown must run even after cancellation.
		ctx = context.WithoutCancel(ctx)
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}
}

// logMetrics writes one record per collected instrument: the total for
// counters, count and sum for histograms.
func logMetrics(logger *slog.Logger, rm *metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				logger.Info("metric", slog.String("name", m.Name), slog.Int64("value", total))
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				logger.Info("metric",
					slog.String("name", m.Name),
					slog.Uint64("count", count),
					slog.Float64("sum", sum),
				)
			}
		}
	}
}
