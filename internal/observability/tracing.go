package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalsfoundry/array-degradation/internal/logging"
)

// Supported span exporters.
const (
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

const (
	envTracingEnabled     = "DEGRADATION_TRACING_ENABLED"
	envTracingExporter    = "DEGRADATION_TRACING_EXPORTER"
	envTracingServiceName = "DEGRADATION_TRACING_SERVICE_NAME"
	envTracingSampleRatio = "DEGRADATION_TRACING_SAMPLE_RATIO"
	envOTLPEndpoint       = "DEGRADATION_OTLP_ENDPOINT"

	defaultServiceName  = "array-degradation"
	defaultOTLPEndpoint = "localhost:4317"
	shutdownTimeout     = 5 * time.Second
)

// TracingConfig selects where the spans of one estimator run go.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Exporter    string // stdout | otlp
	Endpoint    string // otlp collector, host:port
	SampleRatio float64

	// Writer receives stdout exporter output; defaults to os.Stdout.
	Writer io.Writer
}

// TracingConfigFromEnv reads the DEGRADATION_TRACING_* variables. Tracing
// stays off unless DEGRADATION_TRACING_ENABLED is "true"; a malformed or
// out-of-range sample ratio falls back to sampling every run.
func TracingConfigFromEnv() TracingConfig {
	cfg := TracingConfig{
		Enabled:     strings.EqualFold(os.Getenv(envTracingEnabled), "true"),
		ServiceName: envOr(envTracingServiceName, defaultServiceName),
		Exporter:    strings.ToLower(envOr(envTracingExporter, TracingExporterStdout)),
		Endpoint:    os.Getenv(envOTLPEndpoint),
		SampleRatio: 1,
	}
	if ratio, err := strconv.ParseFloat(os.Getenv(envTracingSampleRatio), 64); err == nil && validRatio(ratio) {
		cfg.SampleRatio = ratio
	}
	return cfg
}

// InitTracing installs the global tracer provider for this process. When
// tracing is disabled a noop provider is installed so instrumented code
// pays nothing. Spans are exported synchronously as they end; the returned
// function flushes the exporter and must run before the process exits.
func InitTracing(ctx context.Context, cfg TracingConfig, log logging.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logging.Noop()
	}

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug(ctx, "tracing disabled")
		return func(context.Context) error { return nil }, nil
	}
	if !validRatio(cfg.SampleRatio) {
		return nil, fmt.Errorf("tracing sample ratio %v outside [0, 1]", cfg.SampleRatio)
	}

	exp, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}
	attrs := []attribute.KeyValue{attribute.String("service.name", service)}
	if id := logging.RunIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("service.instance.id", id))
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.String("service_name", service),
		logging.Float("sample_ratio", cfg.SampleRatio),
	)
	return tp.Shutdown, nil
}

func newSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case TracingExporterStdout, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithoutTimestamps(),
		)
	case TracingExporterOTLP, "otlpgrpc":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		))
	default:
		return nil, fmt.Errorf("unsupported tracing exporter %q", cfg.Exporter)
	}
}

// ShutdownWithTimeout flushes the run's spans, giving up after five
// seconds. Failures are logged; the run's own outcome is what the caller
// reports.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log logging.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logging.Noop()
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}

func validRatio(r float64) bool {
	return r >= 0 && r <= 1
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
