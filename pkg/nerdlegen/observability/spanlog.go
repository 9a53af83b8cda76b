package observability

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanProcessor is an sdktrace.SpanProcessor that writes every finished
// span to a logger at debug level. It lets the CLI surface traces without
// an exporter.
type LogSpanProcessor struct {
	logger *slog.Logger
}

var _ sdktrace.SpanProcessor = (*LogSpanProcessor)(nil)

// NewLogSpanProcessor returns a processor logging to logger,
// or to slog.Default() if logger is nil.
func NewLogSpanProcessor(logger *slog.Logger) *LogSpanProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSpanProcessor{logger: logger}
}

// OnStart does nothing.
func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the finished span.
func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	p.logger.Debug("span finished",
		slog.String("name", s.Name()),
		slog.String("trace_id", s.SpanContext().TraceID().String()),
		slog.String("status", s.Status().Code.String()),
		slog.Int64("duration_ms", s.EndTime().Sub(s.StartTime()).Milliseconds()),
	)
}

// Shutdown does nothing.
func (p *LogSpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }
