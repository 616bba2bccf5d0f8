// internal/common/observability/observability.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Observability bundles the OTel meter and tracer used around the match
// pipeline. All methods tolerate a zero value so a failed init degrades to
// no-ops instead of crashing the service.
type Observability struct {
	meterProvider    *metric.MeterProvider
	tracerProvider   *sdktrace.TracerProvider
	tracer           oteltrace.Tracer
	matchCounter     otelmetric.Int64Counter
	dispatchDuration otelmetric.Float64Histogram
}

// New sets up a Prometheus-backed meter and, when jaegerEndpoint is
// non-empty, a Jaeger-backed tracer.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	matchCounter, _ := meter.Int64Counter(
		"match.requests",
		otelmetric.WithDescription("Number of match requests processed"),
	)
	dispatchDuration, _ := meter.Float64Histogram(
		"dispatch.duration",
		otelmetric.WithDescription("Dispatch batch duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.matchCounter = matchCounter
	o.dispatchDuration = dispatchDuration

	if jaegerEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
			return o
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(serviceName)
	}

	return o
}

// StartSpan opens a span for one match cycle. With no tracer configured it
// returns the context unchanged and a no-op span.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	if o.tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name)
}

func (o *Observability) RecordMatchProcessed(ctx context.Context, status string) {
	if o.matchCounter != nil {
		o.matchCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordDispatchDuration(ctx context.Context, duration time.Duration, status string) {
	if o.dispatchDuration != nil {
		o.dispatchDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
