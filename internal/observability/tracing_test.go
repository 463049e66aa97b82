package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/array-degradation/internal/logging"
)

func TestTracingConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("DEGRADATION_TRACING_ENABLED", "")
	t.Setenv("DEGRADATION_TRACING_EXPORTER", "")
	t.Setenv("DEGRADATION_TRACING_SERVICE_NAME", "")
	t.Setenv("DEGRADATION_TRACING_SAMPLE_RATIO", "2.5")

	cfg := TracingConfigFromEnv()
	if cfg.Enabled {
		t.Fatalf("tracing should default to disabled")
	}
	if cfg.Exporter != "stdout" {
		t.Fatalf("Exporter = %q, want stdout", cfg.Exporter)
	}
	if cfg.ServiceName != "array-degradation" {
		t.Fatalf("ServiceName = %q, want array-degradation", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1.0 {
		t.Fatalf("out-of-range ratio should fall back to 1.0, got %v", cfg.SampleRatio)
	}
}

func TestTracingConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("DEGRADATION_TRACING_ENABLED", "TRUE")
	t.Setenv("DEGRADATION_TRACING_EXPORTER", "OTLP")
	t.Setenv("DEGRADATION_TRACING_SERVICE_NAME", "eol-estimator")
	t.Setenv("DEGRADATION_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("DEGRADATION_OTLP_ENDPOINT", "collector:4317")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.ServiceName != "eol-estimator" ||
		cfg.SampleRatio != 0.25 || cfg.Endpoint != "collector:4317" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestInitTracingStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.ContextWithRunID(context.Background(), "run-0042")
	shutdown, err := InitTracing(ctx, TracingConfig{
		Enabled:     true,
		ServiceName: "test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &buf,
	}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	t.Cleanup(func() {
		_, _ = InitTracing(ctx, TracingConfig{}, nil)
	})

	_, span := otel.Tracer("test").Start(ctx, "unit-span")
	span.End()
	ShutdownWithTimeout(ctx, shutdown, nil)

	if !strings.Contains(buf.String(), "unit-span") {
		t.Fatalf("stdout exporter output missing span name: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "run-0042") {
		t.Fatalf("span resource missing run id: %s", buf.String())
	}
}

func TestInitTracingRejectsBadSampleRatio(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.5} {
		_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, SampleRatio: ratio}, nil)
		if err == nil {
			t.Fatalf("ratio %v: expected error", ratio)
		}
	}
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, nil)
	if err == nil {
		t.Fatalf("expected unsupported exporter error")
	}
}

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	if err != nil {
		t.Fatalf("InitTracing disabled: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}
