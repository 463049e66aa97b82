package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/signalsfoundry/array-degradation/internal/chart"
	"github.com/signalsfoundry/array-degradation/model"
)

// Display directives for the degradation figure.
const (
	FigureTitle  = "Simplified Solar Array Degradation in LEO"
	FigureXLabel = "Mission time (years)"
	FigureYLabel = "Relative power (P/P0)"
)

// DemoHorizonYears is the fixed mission horizon of the demonstration.
const DemoHorizonYears = 10

// DemoAltitudes returns the fixed demonstration altitudes in km.
func DemoAltitudes() []float64 {
	return []float64{400, 700}
}

// CurveLabel names the line for an altitude, e.g. "400 km".
func CurveLabel(altitudeKm float64) string {
	return strconv.FormatFloat(altitudeKm, 'f', -1, 64) + " km"
}

// DegradationFigure simulates one series per altitude and assembles the
// figure handed to the renderer. Series are returned in altitude order.
func DegradationFigure(ctx context.Context, sim *Simulator, years int, altitudesKm []float64) (chart.Figure, []model.DegradationSeries, error) {
	fig := chart.Figure{
		Title:       FigureTitle,
		XLabel:      FigureXLabel,
		YLabel:      FigureYLabel,
		Grid:        true,
		Legend:      true,
		TightLayout: true,
	}

	all := make([]model.DegradationSeries, 0, len(altitudesKm))
	for _, alt := range altitudesKm {
		series, err := sim.Run(ctx, years, alt)
		if err != nil {
			return chart.Figure{}, nil, fmt.Errorf("simulate %s: %w", CurveLabel(alt), err)
		}
		xs, ys := series.XYs()
		fig.AddLine(CurveLabel(alt), xs, ys)
		all = append(all, series)
	}
	return fig, all, nil
}

// PlotDegradationCurves builds the degradation figure for each altitude
// and renders it.
func PlotDegradationCurves(ctx context.Context, sim *Simulator, renderer chart.Renderer, years int, altitudesKm []float64) ([]model.DegradationSeries, error) {
	fig, series, err := DegradationFigure(ctx, sim, years, altitudesKm)
	if err != nil {
		return nil, err
	}
	if err := renderer.Render(ctx, fig); err != nil {
		return nil, fmt.Errorf("render degradation curves: %w", err)
	}
	return series, nil
}
