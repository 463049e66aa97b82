package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/array-degradation/internal/logging"
	"github.com/signalsfoundry/array-degradation/model"
)

const tracerName = "github.com/signalsfoundry/array-degradation/core"

// DefaultConstantDegradationPerYear is the altitude-independent aging
// loss applied every year (0.5 %/yr).
const DefaultConstantDegradationPerYear = 0.005

// MaxMissionYears bounds the mission duration accepted by the simulator.
const MaxMissionYears = 1000

// ErrInvalidArgument marks inputs the simulator refuses to compute.
var ErrInvalidArgument = errors.New("invalid argument")

// SimulateRelativePower computes relative array power for years 0..years at
// altitudeKm, losing constantDegPerYear plus the radiation term each year.
//
// Power is not floored at zero: a combined yearly fraction above 1 drives
// later samples negative.
func SimulateRelativePower(years int, altitudeKm, constantDegPerYear float64) (model.DegradationSeries, error) {
	return simulate(model.DefaultAnchors, years, altitudeKm, constantDegPerYear)
}

func simulate(anchors model.AnchorTable, years int, altitudeKm, constantDegPerYear float64) (model.DegradationSeries, error) {
	if years < 0 {
		return model.DegradationSeries{}, fmt.Errorf("%w: mission duration must be non-negative, got %d years", ErrInvalidArgument, years)
	}
	if years > MaxMissionYears {
		return model.DegradationSeries{}, fmt.Errorf("%w: mission duration %d exceeds %d years", ErrInvalidArgument, years, MaxMissionYears)
	}

	yearlyDeg := constantDegPerYear + InterpolateRate(anchors, altitudeKm)

	series := model.DegradationSeries{
		AltitudeKm:        altitudeKm,
		YearlyDegradation: yearlyDeg,
		Years:             make([]int, years+1),
		RelativePower:     make([]float64, years+1),
	}
	series.RelativePower[0] = 1.0
	for i := 1; i <= years; i++ {
		series.Years[i] = i
		series.RelativePower[i] = series.RelativePower[i-1] * (1.0 - yearlyDeg)
	}
	return series, nil
}

// SimulationRecorder receives the outcome of every Simulator run.
type SimulationRecorder interface {
	ObserveSimulation(series model.DegradationSeries, elapsed time.Duration)
	ObserveRejected(err error)
}

// Simulator wraps SimulateRelativePower with a configurable anchor table
// and constant term, plus logging, tracing and metrics around each run.
type Simulator struct {
	anchors     model.AnchorTable
	constantDeg float64

	log      logging.Logger
	recorder SimulationRecorder
	tracer   trace.Tracer
}

// SimulatorOption customises Simulator construction.
type SimulatorOption func(*Simulator)

// WithAnchors replaces the default radiation anchor table.
func WithAnchors(table model.AnchorTable) SimulatorOption {
	return func(s *Simulator) {
		s.anchors = table
	}
}

// WithConstantDegradation overrides the constant yearly aging fraction.
func WithConstantDegradation(fraction float64) SimulatorOption {
	return func(s *Simulator) {
		s.constantDeg = fraction
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) SimulatorOption {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRecorder attaches an optional metrics recorder.
func WithRecorder(r SimulationRecorder) SimulatorOption {
	return func(s *Simulator) {
		s.recorder = r
	}
}

// NewSimulator builds a Simulator using the default anchors and a 0.5 %/yr
// constant term unless overridden.
func NewSimulator(opts ...SimulatorOption) (*Simulator, error) {
	s := &Simulator{
		anchors:     model.DefaultAnchors,
		constantDeg: DefaultConstantDegradationPerYear,
		log:         logging.Noop(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.anchors.Validate(); err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	return s, nil
}

// Anchors returns the anchor table in use.
func (s *Simulator) Anchors() model.AnchorTable {
	return s.anchors
}

// ConstantDegradation returns the constant yearly fraction in use.
func (s *Simulator) ConstantDegradation() float64 {
	return s.constantDeg
}

// Run computes the degradation series for years at altitudeKm.
func (s *Simulator) Run(ctx context.Context, years int, altitudeKm float64) (model.DegradationSeries, error) {
	ctx, span := s.tracer.Start(ctx, "Simulator.Run", trace.WithAttributes(
		attribute.Int("mission.years", years),
		attribute.Float64("orbit.altitude_km", altitudeKm),
		attribute.Float64("degradation.constant_per_year", s.constantDeg),
	))
	defer span.End()

	start := time.Now()
	series, err := simulate(s.anchors, years, altitudeKm, s.constantDeg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn(ctx, "degradation simulation rejected",
			logging.Int("years", years),
			logging.Float("altitude_km", altitudeKm),
			logging.String("error", err.Error()),
		)
		if s.recorder != nil {
			s.recorder.ObserveRejected(err)
		}
		return model.DegradationSeries{}, err
	}
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Float64("degradation.yearly_fraction", series.YearlyDegradation),
		attribute.Float64("degradation.end_of_life", series.EndOfLife()),
	)
	s.log.Debug(ctx, "degradation series computed",
		logging.Float("altitude_km", altitudeKm),
		logging.Int("years", years),
		logging.Float("yearly_fraction", series.YearlyDegradation),
		logging.Float("end_of_life", series.EndOfLife()),
	)
	if s.recorder != nil {
		s.recorder.ObserveSimulation(series, elapsed)
	}
	return series, nil
}
