package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Settings select which OTLP exporters to start.
type Settings struct {
	ServiceName string
	Environment string
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	Traces      bool
	Metrics     bool
}

// Shutdown flushes and stops the providers started by Init.
type Shutdown func(context.Context) error

var errServiceName = errors.New("telemetry: service name required")

// Init installs global trace and meter providers for the enabled exporters
// and the W3C propagators. With both exporters off only the propagators are
// installed and the returned Shutdown is a no-op.
func Init(ctx context.Context, s Settings) (Shutdown, error) {
	if strings.TrimSpace(s.ServiceName) == "" {
		return nil, errServiceName
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !s.Traces && !s.Metrics {
		return func(context.Context) error { return nil }, nil
	}
	if s.Endpoint == "" {
		s.Endpoint = "localhost:4318"
	}

	res, err := buildResource(s)
	if err != nil {
		return nil, err
	}

	var stops []Shutdown
	if s.Traces {
		tp, err := newTracerProvider(ctx, s, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		stops = append(stops, tp.Shutdown)
	}
	if s.Metrics {
		mp, err := newMeterProvider(ctx, s, res)
		if err != nil {
			_ = stopAll(ctx, stops)
			return nil, err
		}
		otel.SetMeterProvider(mp)
		stops = append(stops, mp.Shutdown)
	}
	return func(ctx context.Context) error { return stopAll(ctx, stops) }, nil
}

func buildResource(s Settings) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceNameKey.String(s.ServiceName)}
	if s.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(s.Environment))
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}
	return res, nil
}

func newTracerProvider(ctx context.Context, s Settings, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(s.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(s.Headers))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(2*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
	), nil
}

func newMeterProvider(ctx context.Context, s Settings, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(s.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(s.Headers))
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: metric exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

// stopAll runs stops in reverse order and returns the first error.
func stopAll(ctx context.Context, stops []Shutdown) error {
	var first error
	for i := len(stops) - 1; i >= 0; i-- {
		if err := stops[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ParseHeaders turns "key=value,foo=bar" into a header map. Malformed pairs
// are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}
