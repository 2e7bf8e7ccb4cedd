package telemetry

import (
	"context"
	"encoding/hex"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanExporter implements the OpenTelemetry SpanExporter interface and
// writes completed spans to a structured logger.
//
// Export never fails: problems are logged and swallowed so the trace
// pipeline cannot break a scan.
type LogSpanExporter struct {
	logger *slog.Logger
}

// NewLogSpanExporter creates an exporter writing to the given logger.
func NewLogSpanExporter(logger *slog.Logger) *LogSpanExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSpanExporter{logger: logger}
}

// ExportSpans logs a batch of completed spans.
func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		sc := span.SpanContext()
		traceID := sc.TraceID()
		spanID := sc.SpanID()

		attrs := []any{
			"trace_id", hex.EncodeToString(traceID[:]),
			"span_id", hex.EncodeToString(spanID[:]),
			"duration", span.EndTime().Sub(span.StartTime()),
		}
		for _, attr := range span.Attributes() {
			attrs = append(attrs, string(attr.Key), attr.Value.Emit())
		}

		e.logger.Debug("span "+span.Name(), attrs...)
	}
	return nil
}

// Shutdown performs cleanup when the exporter is being shut down.
// This implementation is a no-op since the logger outlives the exporter.
func (e *LogSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}
