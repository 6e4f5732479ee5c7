// Package telemetry provides OpenTelemetry instrumentation for Honeycomb.
// Until Setup is called every tracer is a no-op.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName           = "dungeondepths"
	defaultServiceVersion = "0.1.0"
	honeycombEndpoint     = "https://api.honeycomb.io"
)

// Options configures Setup.
type Options struct {
	ServiceVersion string
	// SampleRatio is the fraction of root traces kept; 0 keeps all of them.
	SampleRatio float64
}

// ConfigureHoneycombEnv fills in the standard OTEL_* exporter variables from
// HONEYCOMB_DUNGEONDEPTHS_API_KEY and HONEYCOMB_DUNGEONDEPTHS_DATASET.
// An endpoint that is already set is left alone.
func ConfigureHoneycombEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", honeycombEndpoint)
	}

	// The .env file may hold an unexpanded variable reference, so the header
	// is built here from the key.
	apiKey := os.Getenv("HONEYCOMB_DUNGEONDEPTHS_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DUNGEONDEPTHS_DATASET")
	if dataset == "" {
		dataset = serviceName
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

// Setup installs a global tracer provider exporting over OTLP/HTTP, reading
// the standard OTEL_* environment variables. The returned function flushes
// and stops the exporter.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	version := opts.ServiceVersion
	if version == "" {
		version = defaultServiceVersion
	}

	// Built without resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(opts.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Tracer returns a named tracer for a component, e.g. "world" or "save".
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a tracer that never records.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
