// Package telemetry wires OpenTelemetry tracing and metrics for the
// scanner.
//
// Spans are exported through a slog-backed exporter so local runs get a
// readable trace of each scan without any collector infrastructure; swap
// the exporter for an OTLP one in deployments that have a backend.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/richardissailing/PyAccessibility/scan"
)

// ServiceName identifies the scanner in exported telemetry.
const ServiceName = "a11yscan"

// NewTracerProvider creates a TracerProvider that exports completed spans
// through the given logger.
//
// A SimpleSpanProcessor is used for immediate export without batching, so
// spans appear in the log as soon as they complete. Callers own shutdown:
//
//	tp := telemetry.NewTracerProvider(logger)
//	defer tp.Shutdown(context.Background())
//	tracer := tp.Tracer(telemetry.ServiceName)
func NewTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	exporter := NewLogSpanExporter(logger)
	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(ServiceName),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
}

// ScanMetrics records scan-level measurements.
type ScanMetrics struct {
	scans    metric.Int64Counter
	findings metric.Int64Counter
	duration metric.Float64Histogram
}

// NewScanMetrics creates the scan instruments on the given meter.
func NewScanMetrics(meter metric.Meter) (*ScanMetrics, error) {
	scans, err := meter.Int64Counter("a11y.scans",
		metric.WithDescription("Number of completed scans"))
	if err != nil {
		return nil, err
	}
	findings, err := meter.Int64Counter("a11y.findings",
		metric.WithDescription("Number of findings reported"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("a11y.scan.duration",
		metric.WithDescription("Scan duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &ScanMetrics{scans: scans, findings: findings, duration: duration}, nil
}

// Record registers the measurements for one completed scan.
func (m *ScanMetrics) Record(ctx context.Context, result *scan.Result) {
	if m == nil || result == nil {
		return
	}
	m.scans.Add(ctx, 1)
	m.duration.Record(ctx, result.Duration.Seconds())
	for severity, count := range result.Severities {
		m.findings.Add(ctx, int64(count),
			metric.WithAttributes(attribute.String("severity", string(severity))))
	}
}
