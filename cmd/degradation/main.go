package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/array-degradation/core"
	"github.com/signalsfoundry/array-degradation/internal/chart"
	"github.com/signalsfoundry/array-degradation/internal/logging"
	"github.com/signalsfoundry/array-degradation/internal/observability"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "degradation: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(ctx, base)

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}

	err = run(ctx, cfg, deps{
		log:      base,
		renderer: cfg.renderer(),
		registry: prometheus.NewRegistry(),
	})
	observability.ShutdownWithTimeout(context.Background(), shutdown, log)
	if err != nil {
		log.Error(ctx, "degradation run failed", logging.Err(err))
		os.Exit(1)
	}
}

type deps struct {
	log      logging.Logger
	renderer chart.Renderer
	registry *prometheus.Registry
}

// run computes the demonstration curves for the fixed horizon and
// altitudes, renders them and reports the reference orbit.
func run(ctx context.Context, cfg config, d deps) error {
	ctx, log := logging.WithRunLogger(ctx, d.log)
	if d.registry == nil {
		d.registry = prometheus.NewRegistry()
	}

	collector, err := observability.NewDegradationCollector(d.registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	sim, err := core.NewSimulator(
		core.WithLogger(log.With(logging.String("component", "simulator"))),
		core.WithRecorder(collector),
	)
	if err != nil {
		return err
	}

	series, err := core.PlotDegradationCurves(ctx, sim, d.renderer, core.DemoHorizonYears, core.DemoAltitudes())
	if err != nil {
		return err
	}
	for _, s := range series {
		log.Info(ctx, "degradation curve",
			logging.String("label", core.CurveLabel(s.AltitudeKm)),
			logging.Float("yearly_fraction", s.YearlyDegradation),
			logging.Float("end_of_life", s.EndOfLife()),
		)
	}
	log.Info(ctx, "figure rendered", logging.String("path", cfg.OutPath))

	if cfg.hasReference() {
		reportReference(ctx, cfg, sim, log)
	}

	if cfg.PushGateway != "" {
		if err := collector.Push(ctx, cfg.PushGateway, observability.DefaultPushJob, logging.RunIDFromContext(ctx)); err != nil {
			log.Warn(ctx, "metrics push failed", logging.Err(err))
		}
	}
	return nil
}

// reportReference logs where a real spacecraft falls on the altitude
// model. Failures are informational only.
func reportReference(ctx context.Context, cfg config, sim *core.Simulator, log logging.Logger) {
	log = log.With(logging.String("reference", cfg.ReferenceName))

	epoch, err := core.TLEEpoch(cfg.ReferenceTLE1)
	if err != nil {
		log.Warn(ctx, "reference orbit skipped", logging.Err(err))
		return
	}
	// One LEO revolution is well under two hours.
	profile, err := core.OrbitAltitude(cfg.ReferenceTLE1, cfg.ReferenceTLE2, epoch, 2*time.Hour, time.Minute)
	if err != nil {
		log.Warn(ctx, "reference orbit skipped", logging.Err(err))
		return
	}
	s, err := sim.Run(ctx, core.DemoHorizonYears, profile.MeanKm)
	if err != nil {
		log.Warn(ctx, "reference orbit skipped", logging.Err(err))
		return
	}
	log.Info(ctx, "reference orbit",
		logging.Float("mean_altitude_km", profile.MeanKm),
		logging.Float("min_altitude_km", profile.MinKm),
		logging.Float("max_altitude_km", profile.MaxKm),
		logging.Float("radiation_per_year", core.InterpolateRate(sim.Anchors(), profile.MeanKm)),
		logging.Float("end_of_life", s.EndOfLife()),
	)
}
