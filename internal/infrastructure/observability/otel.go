package observability

import (
	"context"
	"errors"
	"sync"
	"time"

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

const instrumentationName = "github.com/zatekoja/boulevard"

// Metrics holds all client metrics
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ToggleCount     metric.Int64Counter
	ToggleRollbacks metric.Int64Counter
	ToggleRejected  metric.Int64Counter
	SearchQueries   metric.Int64Counter
	SearchDiscarded metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// Setup initializes OpenTelemetry trace and metric export
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

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	return shutdown, nil
}

// DefaultMetrics returns the process-wide metrics, creating them on first use.
// Without Setup the instruments are no-ops.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		m, err := InitMetrics()
		if err != nil {
			GetLogger().Warn().Err(err).Msg("failed to initialize metrics")
			return
		}
		metrics = m
	})
	return metrics
}

// InitMetrics initializes client metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"boulevard.client.request.count",
		metric.WithDescription("Number of backend requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"boulevard.client.request.duration",
		metric.WithDescription("Backend request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	toggleCount, err := meter.Int64Counter(
		"boulevard.toggle.count",
		metric.WithDescription("Optimistic relation toggles issued"),
	)
	if err != nil {
		return nil, err
	}

	toggleRollbacks, err := meter.Int64Counter(
		"boulevard.toggle.rollback.count",
		metric.WithDescription("Optimistic toggles reverted after a failed call"),
	)
	if err != nil {
		return nil, err
	}

	toggleRejected, err := meter.Int64Counter(
		"boulevard.toggle.rejected.count",
		metric.WithDescription("Toggles rejected because one was already in flight"),
	)
	if err != nil {
		return nil, err
	}

	searchQueries, err := meter.Int64Counter(
		"boulevard.search.query.count",
		metric.WithDescription("Debounced search queries issued"),
	)
	if err != nil {
		return nil, err
	}

	searchDiscarded, err := meter.Int64Counter(
		"boulevard.search.discarded.count",
		metric.WithDescription("Search responses discarded as superseded"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		ToggleCount:     toggleCount,
		ToggleRollbacks: toggleRollbacks,
		ToggleRejected:  toggleRejected,
		SearchQueries:   searchQueries,
		SearchDiscarded: searchDiscarded,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordRequestMetric records a backend request metric
func RecordRequestMetric(ctx context.Context, m *Metrics, method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	m.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordToggle records one toggle outcome: "applied", "rolled_back" or "rejected"
func RecordToggle(ctx context.Context, m *Metrics, relation, outcome string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("relation", relation))
	switch outcome {
	case "rolled_back":
		m.ToggleRollbacks.Add(ctx, 1, attrs)
	case "rejected":
		m.ToggleRejected.Add(ctx, 1, attrs)
	default:
		m.ToggleCount.Add(ctx, 1, attrs)
	}
}

// RecordSearch records an issued (discarded=false) or discarded search response
func RecordSearch(ctx context.Context, m *Metrics, discarded bool) {
	if m == nil {
		return
	}
	if discarded {
		m.SearchDiscarded.Add(ctx, 1)
		return
	}
	m.SearchQueries.Add(ctx, 1)
}
