package model

// DegradationSeries is a year-by-year relative power curve. Years and
// RelativePower are parallel slices of equal length and must be read
// positionally: RelativePower[i] is P/P0 at the end of Years[i].
type DegradationSeries struct {
	AltitudeKm        float64
	YearlyDegradation float64 // combined constant + radiation fraction per year

	Years         []int
	RelativePower []float64
}

// Len reports the number of (year, power) samples.
func (s DegradationSeries) Len() int {
	return len(s.Years)
}

// EndOfLife returns the relative power at the final year, or 1 for an
// empty series.
func (s DegradationSeries) EndOfLife() float64 {
	if len(s.RelativePower) == 0 {
		return 1
	}
	return s.RelativePower[len(s.RelativePower)-1]
}

// XYs returns the series as float64 coordinates for plotting.
func (s DegradationSeries) XYs() (xs, ys []float64) {
	xs = make([]float64, len(s.Years))
	for i, y := range s.Years {
		xs[i] = float64(y)
	}
	ys = make([]float64, len(s.RelativePower))
	copy(ys, s.RelativePower)
	return xs, ys
}
