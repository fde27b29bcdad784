package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/heritagecrafts/platform/backend"

// Metrics holds the application's instrument handles.
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	SearchCount     metric.Int64Counter
	ZeroResultCount metric.Int64Counter
	SectionCount    metric.Int64Counter
	CacheHitCount   metric.Int64Counter
	CacheMissCount  metric.Int64Counter
}

// Setup wires OTLP gRPC trace and metric pipelines plus Go runtime metrics.
// The returned function shuts both providers down.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		return meterProvider.Shutdown(ctx)
	}

	return shutdown, nil
}

// InitMetrics registers the application's counters and histograms.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(scopeName)

	var firstErr error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		RequestCount:    counter("http.server.request.count", "Number of HTTP requests"),
		RequestDuration: requestDuration,
		SearchCount:     counter("search.request.count", "Number of search requests served"),
		ZeroResultCount: counter("search.zero_result.count", "Number of searches that returned no results"),
		SectionCount:    counter("recommendation.section.count", "Number of recommendation sections built"),
		CacheHitCount:   counter("cache.hit.count", "Number of cache hits"),
		CacheMissCount:  counter("cache.miss.count", "Number of cache misses"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

// StartSpan starts a span in the application's tracer scope.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(scopeName).Start(ctx, spanName)
}

// RecordError records a non-nil error on the span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span.
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records count and duration for one HTTP request.
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCacheHit counts a hit for the given cache key.
func RecordCacheHit(ctx context.Context, metrics *Metrics, key string) {
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key", key)))
}

// RecordCacheMiss counts a miss for the given cache key.
func RecordCacheMiss(ctx context.Context, metrics *Metrics, key string) {
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key", key)))
}
