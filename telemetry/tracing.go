// Package telemetry configures OpenTelemetry tracing for calls to the
// upstream vehicle API.
//
// Custom span attributes use the `vehiclegw.` prefix.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "vehiclegw/gmapi"

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitTraceProvider installs an OTLP gRPC trace provider. If endpoint is
// empty, tracing stays disabled and the global noop provider is used.
// The returned shutdown function must be called on exit.
func InitTraceProvider(ctx context.Context, endpoint, serviceName, version string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// StartUpstreamSpan opens a client span for one POST to the upstream API.
func StartUpstreamSpan(ctx context.Context, path, vehicleID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "gmapi.post",
		trace.WithAttributes(
			attribute.String("vehiclegw.upstream.path", path),
			attribute.String("vehiclegw.vehicle_id", vehicleID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndUpstreamSpan records the envelope status (empty if none was decoded)
// and any error, then ends the span.
func EndUpstreamSpan(span trace.Span, status string, err error) {
	if status != "" {
		span.SetAttributes(attribute.String("vehiclegw.upstream.status", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
