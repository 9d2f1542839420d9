// Package observability provides OpenTelemetry metrics and tracing for the
// event log.
package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName scopes every meter and tracer of this service.
const instrumentationName = "github.com/alfredjeanlab/eventlog"

// Metrics records event log metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type Metrics interface {
	// EventCreated records a stored event of the given type.
	EventCreated(ctx context.Context, eventType string)

	// EventSkipped records a create call that wrote nothing, with the reason.
	EventSkipped(ctx context.Context, eventType, reason string)

	// EventDeleted records a deleted event.
	EventDeleted(ctx context.Context)

	// HookFired records a hook invocation and its outcome.
	HookFired(ctx context.Context, handler string, err error)

	// RecordQuery records a store operation with its duration and error status.
	RecordQuery(ctx context.Context, op string, duration time.Duration, err error)
}

// otelMetrics implements Metrics using OpenTelemetry.
type otelMetrics struct {
	eventsCreated metric.Int64Counter
	eventsSkipped metric.Int64Counter
	eventsDeleted metric.Int64Counter
	hooksFired    metric.Int64Counter
	hookErrors    metric.Int64Counter
	queryLatency  metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

// NewMetrics creates OTel instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	eventsCreated, err := meter.Int64Counter("eventlog.events.created",
		metric.WithDescription("Number of events recorded"),
	)
	if err != nil {
		return nil, err
	}

	eventsSkipped, err := meter.Int64Counter("eventlog.events.skipped",
		metric.WithDescription("Number of create calls that recorded nothing"),
	)
	if err != nil {
		return nil, err
	}

	eventsDeleted, err := meter.Int64Counter("eventlog.events.deleted",
		metric.WithDescription("Number of events deleted"),
	)
	if err != nil {
		return nil, err
	}

	hooksFired, err := meter.Int64Counter("eventlog.hooks.fired",
		metric.WithDescription("Number of hook invocations"),
	)
	if err != nil {
		return nil, err
	}

	hookErrors, err := meter.Int64Counter("eventlog.hooks.errors",
		metric.WithDescription("Number of failed hook invocations"),
	)
	if err != nil {
		return nil, err
	}

	queryLatency, err := meter.Float64Histogram("eventlog.store.latency_ms",
		metric.WithDescription("Store operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	queryErrors, err := meter.Int64Counter("eventlog.store.errors",
		metric.WithDescription("Number of failed store operations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		eventsCreated: eventsCreated,
		eventsSkipped: eventsSkipped,
		eventsDeleted: eventsDeleted,
		hooksFired:    hooksFired,
		hookErrors:    hookErrors,
		queryLatency:  queryLatency,
		queryErrors:   queryErrors,
	}, nil
}

// NewMetricsRecorder returns Metrics backed by the global OTel meter
// provider. If initialization fails, returns a no-op recorder.
func NewMetricsRecorder() Metrics {
	m, err := NewMetrics(otel.Meter(instrumentationName))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) EventCreated(ctx context.Context, eventType string) {
	m.eventsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

func (m *otelMetrics) EventSkipped(ctx context.Context, eventType, reason string) {
	m.eventsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("reason", reason),
	))
}

func (m *otelMetrics) EventDeleted(ctx context.Context) {
	m.eventsDeleted.Add(ctx, 1)
}

func (m *otelMetrics) HookFired(ctx context.Context, handler string, err error) {
	attrs := metric.WithAttributes(attribute.String("handler", handler))
	m.hooksFired.Add(ctx, 1, attrs)
	if err != nil {
		m.hookErrors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordQuery(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("op", op))
	m.queryLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.queryErrors.Add(ctx, 1, attrs)
	}
}
