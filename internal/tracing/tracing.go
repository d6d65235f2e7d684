// Package tracing provides OpenTelemetry instrumentation for gamevault.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanm101/gamevault/internal/config"
)

const serviceName = "gamevault"

// Options configure span export. An empty Endpoint disables export and
// leaves the global no-op tracer in place.
type Options struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	Version     string
}

// FromConfig derives export options from the tracing section of the app
// config. A disabled section yields options with no endpoint.
func FromConfig(c config.TracingConfig, version string) Options {
	if !c.Enabled {
		return Options{Version: version}
	}
	return Options{
		Endpoint:    c.Endpoint,
		Insecure:    c.Insecure,
		SampleRatio: c.SampleRatio,
		Version:     version,
	}
}

// sampler samples everything unless the ratio is in (0, 1). Child spans
// follow their parent's decision.
func (o Options) sampler() sdktrace.Sampler {
	if o.SampleRatio > 0 && o.SampleRatio < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.SampleRatio))
	}
	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

var tracer trace.Tracer

// Setup installs the tracer provider. The returned shutdown flushes pending
// spans and must be called on exit.
func Setup(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		tracer = otel.Tracer(serviceName)
		return func(context.Context) error { return nil }, nil
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, err
	}

	attrs := []resource.Option{resource.WithAttributes(semconv.ServiceName(serviceName))}
	if opts.Version != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(opts.Version)))
	}
	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(opts.sampler()),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(serviceName)

	return tp.Shutdown, nil
}

// Tracer returns the configured tracer.
func Tracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer(serviceName)
	}
	return tracer
}

// StartSpan starts a new span with the given name.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// RecordError marks span as failed with err. Nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
