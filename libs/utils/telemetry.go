package utils

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.11.0"
)

// DefaultMetricInterval is the interval metrics are collected and exported at, unless configured.
const DefaultMetricInterval = 10 * time.Second

// ServiceInfo describes the service exported telemetry belongs to.
type ServiceInfo struct {
	// Namespace groups services of one deployment, e.g. "da-matrix".
	Namespace string
	// Name is the service name, e.g. "node".
	Name string
	// Version is the semantic version of the running binary.
	Version string
	// InstanceID tells apart instances of the same service, e.g. the store path.
	InstanceID string
}

// Resource describes the service as an OTLP resource.
func (s ServiceInfo) Resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNamespaceKey.String(s.Namespace),
		semconv.ServiceNameKey.String(s.Name),
		semconv.ServiceVersionKey.String(s.Version),
		semconv.ServiceInstanceIDKey.String(s.InstanceID),
	)
}

// NewMetricProvider creates a meter provider periodically exporting to an OTLP HTTP endpoint.
// Zero interval means DefaultMetricInterval.
func NewMetricProvider(
	ctx context.Context,
	info ServiceInfo,
	interval time.Duration,
	opts ...otlpmetrichttp.Option,
) (*sdk.MeterProvider, error) {
	opts = append([]otlpmetrichttp.Option{otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression)}, opts...)
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP metric exporter: %w", err)
	}

	if interval == 0 {
		interval = DefaultMetricInterval
	}
	provider := sdk.NewMeterProvider(
		sdk.WithReader(
			sdk.NewPeriodicReader(exp,
				sdk.WithTimeout(interval),
				sdk.WithInterval(interval))),
		sdk.WithResource(info.Resource()),
	)
	return provider, nil
}

// NewTracerProvider creates a tracer provider batching spans to an OTLP HTTP endpoint.
func NewTracerProvider(
	ctx context.Context,
	info ServiceInfo,
	opts ...otlptracehttp.Option,
) (*tracesdk.TracerProvider, error) {
	opts = append([]otlptracehttp.Option{otlptracehttp.WithCompression(otlptracehttp.GzipCompression)}, opts...)
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	return tracesdk.NewTracerProvider(
		// Always be sure to batch in production.
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(info.Resource()),
	), nil
}
