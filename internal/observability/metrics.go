package observability

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/array-degradation/core"
	"github.com/signalsfoundry/array-degradation/model"
)

// Outcome label values for degradation_simulations_total.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeError           = "error"
)

// DegradationCollector bundles Prometheus metrics for simulator runs. It
// satisfies core.SimulationRecorder.
type DegradationCollector struct {
	gatherer prometheus.Gatherer

	Simulations        *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	EndOfLifePower     *prometheus.GaugeVec
	YearlyFraction     *prometheus.GaugeVec
}

var _ core.SimulationRecorder = (*DegradationCollector)(nil)

// NewDegradationCollector registers simulator metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewDegradationCollector(reg prometheus.Registerer) (*DegradationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	simulations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "degradation_simulations_total",
		Help: "Total number of degradation simulations, labeled by outcome.",
	}, []string{"outcome"}), "degradation_simulations_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "degradation_simulation_duration_seconds",
		Help:    "Time spent computing a single degradation series.",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
	}), "degradation_simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	eol, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "degradation_end_of_life_relative_power",
		Help: "Relative power (P/P0) at the final mission year, by altitude.",
	}, []string{"altitude_km"}), "degradation_end_of_life_relative_power")
	if err != nil {
		return nil, err
	}

	yearly, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "degradation_yearly_fraction",
		Help: "Combined constant and radiation degradation fraction per year, by altitude.",
	}, []string{"altitude_km"}), "degradation_yearly_fraction")
	if err != nil {
		return nil, err
	}

	return &DegradationCollector{
		gatherer:           gatherer,
		Simulations:        simulations,
		SimulationDuration: duration,
		EndOfLifePower:     eol,
		YearlyFraction:     yearly,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *DegradationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveSimulation records a successful run.
func (c *DegradationCollector) ObserveSimulation(series model.DegradationSeries, elapsed time.Duration) {
	if c == nil {
		return
	}
	label := AltitudeLabel(series.AltitudeKm)
	c.Simulations.WithLabelValues(OutcomeOK).Inc()
	c.SimulationDuration.Observe(elapsed.Seconds())
	c.EndOfLifePower.WithLabelValues(label).Set(series.EndOfLife())
	c.YearlyFraction.WithLabelValues(label).Set(series.YearlyDegradation)
}

// ObserveRejected records a run the simulator refused.
func (c *DegradationCollector) ObserveRejected(err error) {
	if c == nil {
		return
	}
	outcome := OutcomeError
	if errors.Is(err, core.ErrInvalidArgument) {
		outcome = OutcomeInvalidArgument
	}
	c.Simulations.WithLabelValues(outcome).Inc()
}

// AltitudeLabel formats an altitude for use as a label value.
func AltitudeLabel(altitudeKm float64) string {
	return strconv.FormatFloat(altitudeKm, 'f', -1, 64)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
