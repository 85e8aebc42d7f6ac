package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrInvalidSampleRatio is returned for ratios outside [0, 1].
var ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// TracingConfig configures [SetupTracing].
type TracingConfig struct {
	// Endpoint is the OTLP/gRPC collector address, e.g. "localhost:4317".
	// Tracing is disabled when empty.
	Endpoint string
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string
	// ServiceVersion is recorded as the service.version resource attribute.
	ServiceVersion string
	// SampleRatio is the fraction of root spans that are sampled.
	SampleRatio float64
	// Timeout bounds each export.
	Timeout time.Duration
	// Insecure disables TLS for the collector connection.
	Insecure bool
}

// NewTracingConfig returns a [TracingConfig] that samples every trace.
func NewTracingConfig(endpoint string) TracingConfig {
	return TracingConfig{
		Endpoint:    endpoint,
		ServiceName: "rtool",
		SampleRatio: 1,
		Timeout:     10 * time.Second,
		Insecure:    true,
	}
}

// Enabled reports whether spans are exported.
func (c TracingConfig) Enabled() bool {
	return c.Endpoint != ""
}

// SetupTracing installs a global tracer provider exporting to cfg.Endpoint,
// and the W3C trace context propagator. The returned function must be called
// before exit to flush spans. When tracing is disabled, it does nothing.
func SetupTracing(ctx context.Context, cfg TracingConfig) (ShutdownFunc, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRatio, cfg.SampleRatio)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	return setupProvider(ctx, cfg, exporter)
}

// setupProvider installs a tracer provider exporting to exporter. The
// exporter is shut down if setup fails.
func setupProvider(
	ctx context.Context,
	cfg TracingConfig,
	exporter sdktrace.SpanExporter,
	resOpts ...resource.Option,
) (ShutdownFunc, error) {
	resOpts = append([]resource.Option{
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	}, resOpts...)

	res, err := resource.New(ctx, resOpts...)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("create resource: %w", err),
			exporter.Shutdown(ctx),
		)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return func(ctx context.Context) error {
		err := provider.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}

		return nil
	}, nil
}
