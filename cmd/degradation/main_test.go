package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signalsfoundry/array-degradation/internal/chart"
	"github.com/signalsfoundry/array-degradation/internal/logging"
)

type captureRenderer struct {
	figs []chart.Figure
	err  error
}

func (c *captureRenderer) Render(_ context.Context, fig chart.Figure) error {
	c.figs = append(c.figs, fig)
	return c.err
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.OutPath != "degradation.png" || cfg.WidthIn != 6 || cfg.HeightIn != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.hasReference() {
		t.Fatalf("default config should carry the reference orbit")
	}
}

func TestParseConfigRejectsBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"-width", "0"},
		{"-out", ""},
		{"extra"},
		{"-unknown"},
	} {
		if _, err := parseConfig(args, io.Discard); err == nil {
			t.Fatalf("parseConfig(%v) expected error", args)
		}
	}
}

func TestRunRendersDemoCurves(t *testing.T) {
	var logs bytes.Buffer
	renderer := &captureRenderer{}
	reg := prometheus.NewRegistry()

	cfg, err := parseConfig([]string{"-out", "ignored.png"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}

	err = run(context.Background(), cfg, deps{
		log:      logging.New(logging.Config{Level: "debug", Output: &logs}),
		renderer: renderer,
		registry: reg,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(renderer.figs) != 1 {
		t.Fatalf("rendered %d figures, want 1", len(renderer.figs))
	}
	fig := renderer.figs[0]
	if len(fig.Lines) != 2 || fig.Lines[0].Label != "400 km" || fig.Lines[1].Label != "700 km" {
		t.Fatalf("unexpected lines: %+v", fig.Lines)
	}

	if got, err := testutil.GatherAndCount(reg, "degradation_simulations_total"); err != nil || got != 1 {
		t.Fatalf("degradation_simulations_total series = %d (err %v), want 1", got, err)
	}
	// two demo curves plus the reference orbit
	if got, err := testutil.GatherAndCount(reg, "degradation_end_of_life_relative_power"); err != nil || got != 3 {
		t.Fatalf("end-of-life gauges = %d (err %v), want 3", got, err)
	}

	out := logs.String()
	for _, want := range []string{"degradation curve", "reference orbit", "run_id"} {
		if !strings.Contains(out, want) {
			t.Fatalf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestRunSkipsBrokenReferenceOrbit(t *testing.T) {
	cases := map[string][2]string{
		"garbage lines": {"1 garbage", "2 garbage"},
		"corrupt bstar": {defaultReferenceTLE1[:53] + "1x270-4" + defaultReferenceTLE1[60:], defaultReferenceTLE2},
		"corrupt ndot":  {defaultReferenceTLE1[:33] + " .0000x204" + defaultReferenceTLE1[43:], defaultReferenceTLE2},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			cfg := config{
				OutPath:       "ignored.png",
				WidthIn:       6,
				HeightIn:      4,
				ReferenceName: "broken",
				ReferenceTLE1: lines[0],
				ReferenceTLE2: lines[1],
			}
			ctx, log := logging.WithRunLogger(context.Background(), logging.New(logging.Config{Output: &logs}))
			if err := run(ctx, cfg, deps{log: log, renderer: &captureRenderer{}}); err != nil {
				t.Fatalf("run should tolerate a broken reference orbit: %v", err)
			}
			if !strings.Contains(logs.String(), "reference orbit skipped") {
				t.Fatalf("expected skip warning, got:\n%s", logs.String())
			}
		})
	}
}

func TestRunPropagatesRenderError(t *testing.T) {
	boom := errors.New("disk full")
	err := run(context.Background(), config{OutPath: "x.png"}, deps{renderer: &captureRenderer{err: boom}})
	if !errors.Is(err, boom) {
		t.Fatalf("run error = %v, want %v", err, boom)
	}
}

func TestRunWritesImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curves.svg")
	cfg, err := parseConfig([]string{"-out", path, "-reference-tle1", ""}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if err := run(context.Background(), cfg, deps{renderer: cfg.renderer()}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("output is not an SVG document")
	}
}

func TestRunPushesMetricsWhenConfigured(t *testing.T) {
	pushed := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config{OutPath: "ignored.png", WidthIn: 6, HeightIn: 4, PushGateway: srv.URL}
	ctx := logging.ContextWithRunID(context.Background(), "run42")
	if err := run(ctx, cfg, deps{renderer: &captureRenderer{}}); err != nil {
		t.Fatalf("run: %v", err)
	}

	select {
	case path := <-pushed:
		if !strings.HasPrefix(path, "/metrics/job/array_degradation") || !strings.HasSuffix(path, "/run_id/run42") {
			t.Fatalf("unexpected push path %q", path)
		}
	default:
		t.Fatalf("expected metrics to be pushed")
	}
}
