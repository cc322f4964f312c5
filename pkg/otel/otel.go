package otel

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "github.com/adrianliechti/scanslate"

// Enabled reports whether an OTLP endpoint is configured in the environment.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Setup installs global trace, metric and log providers exporting over OTLP.
// The returned function flushes and stops them.
func Setup(ctx context.Context, service, version string) (func(context.Context) error, error) {
	if !Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", service),
		attribute.String("service.version", version),
	)

	grpc := strings.EqualFold(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"), "grpc")

	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var result error

		for _, fn := range shutdowns {
			result = errors.Join(result, fn(ctx))
		}

		return result
	}

	traceExporter, err := newTraceExporter(ctx, grpc)

	if err != nil {
		return shutdown, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)

	shutdowns = append(shutdowns, tracerProvider.Shutdown)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	metricExporter, err := newMetricExporter(ctx, grpc)

	if err != nil {
		return shutdown, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	shutdowns = append(shutdowns, meterProvider.Shutdown)

	otel.SetMeterProvider(meterProvider)

	logExporter, err := newLogExporter(ctx, grpc)

	if err != nil {
		return shutdown, err
	}

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)

	shutdowns = append(shutdowns, loggerProvider.Shutdown)

	global.SetLoggerProvider(loggerProvider)

	return shutdown, nil
}

// Logger returns a slog logger bridged to the OpenTelemetry log pipeline
// when enabled, and a text logger on stderr otherwise.
func Logger(name string) *slog.Logger {
	if Enabled() {
		return otelslog.NewLogger(name)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTraceExporter(ctx context.Context, grpc bool) (sdktrace.SpanExporter, error) {
	if grpc {
		return otlptracegrpc.New(ctx)
	}

	return otlptracehttp.New(ctx)
}

func newMetricExporter(ctx context.Context, grpc bool) (sdkmetric.Exporter, error) {
	if grpc {
		return otlpmetricgrpc.New(ctx)
	}

	return otlpmetrichttp.New(ctx)
}

func newLogExporter(ctx context.Context, grpc bool) (sdklog.Exporter, error) {
	if grpc {
		return otlploggrpc.New(ctx)
	}

	return otlploghttp.New(ctx)
}
