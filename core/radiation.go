package core

import (
	"math"

	"github.com/signalsfoundry/array-degradation/model"
)

// RadiationTermPerYear estimates the yearly radiation degradation fraction
// for an array at altitudeKm using the default 400–700 km anchor table.
// Altitudes outside the table are clamped to the nearest anchor; NaN
// propagates.
func RadiationTermPerYear(altitudeKm float64) float64 {
	return InterpolateRate(model.DefaultAnchors, altitudeKm)
}

// InterpolateRate linearly interpolates the yearly rate between the two
// anchors of table after clamping altitudeKm to [Low, High]. The table is
// assumed valid; see model.AnchorTable.Validate.
func InterpolateRate(table model.AnchorTable, altitudeKm float64) float64 {
	lo, hi := table.Low, table.High
	clamped := math.Max(lo.AltitudeKm, math.Min(altitudeKm, hi.AltitudeKm))
	return lo.RatePerYear + (hi.RatePerYear-lo.RatePerYear)*(clamped-lo.AltitudeKm)/table.Span()
}
