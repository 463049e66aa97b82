package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAnchors is returned when an anchor table cannot define an
// interpolation domain.
var ErrInvalidAnchors = errors.New("invalid anchor table")

// AnchorPoint pins a radiation degradation rate (fraction per year) to an
// orbital altitude in kilometres.
type AnchorPoint struct {
	AltitudeKm  float64
	RatePerYear float64
}

// AnchorTable is the pair of anchor points bounding the linear
// interpolation. Low.AltitudeKm must be strictly below High.AltitudeKm.
type AnchorTable struct {
	Low  AnchorPoint
	High AnchorPoint
}

// DefaultAnchors spans 0.4 %/yr at 400 km to 1.0 %/yr at 700 km.
var DefaultAnchors = AnchorTable{
	Low:  AnchorPoint{AltitudeKm: 400, RatePerYear: 0.004},
	High: AnchorPoint{AltitudeKm: 700, RatePerYear: 0.010},
}

// Validate checks that the altitude anchors are finite and strictly
// increasing. Rate monotonicity is expected but not enforced.
func (t AnchorTable) Validate() error {
	for _, v := range []float64{t.Low.AltitudeKm, t.High.AltitudeKm, t.Low.RatePerYear, t.High.RatePerYear} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite anchor value %v", ErrInvalidAnchors, v)
		}
	}
	if t.Low.AltitudeKm >= t.High.AltitudeKm {
		return fmt.Errorf("%w: altitude anchors must be strictly increasing (%g km >= %g km)",
			ErrInvalidAnchors, t.Low.AltitudeKm, t.High.AltitudeKm)
	}
	return nil
}

// Span returns the altitude width of the interpolation domain.
func (t AnchorTable) Span() float64 {
	return t.High.AltitudeKm - t.Low.AltitudeKm
}
