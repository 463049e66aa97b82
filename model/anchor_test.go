package model

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultAnchorsValid(t *testing.T) {
	if err := DefaultAnchors.Validate(); err != nil {
		t.Fatalf("DefaultAnchors.Validate() = %v, want nil", err)
	}
	if got := DefaultAnchors.Span(); got != 300 {
		t.Fatalf("DefaultAnchors.Span() = %v, want 300", got)
	}
}

func TestAnchorTableValidateRejectsBadTables(t *testing.T) {
	cases := map[string]AnchorTable{
		"equal altitudes": {
			Low:  AnchorPoint{AltitudeKm: 500, RatePerYear: 0.004},
			High: AnchorPoint{AltitudeKm: 500, RatePerYear: 0.010},
		},
		"decreasing altitudes": {
			Low:  AnchorPoint{AltitudeKm: 700, RatePerYear: 0.004},
			High: AnchorPoint{AltitudeKm: 400, RatePerYear: 0.010},
		},
		"nan rate": {
			Low:  AnchorPoint{AltitudeKm: 400, RatePerYear: math.NaN()},
			High: AnchorPoint{AltitudeKm: 700, RatePerYear: 0.010},
		},
		"infinite altitude": {
			Low:  AnchorPoint{AltitudeKm: 400, RatePerYear: 0.004},
			High: AnchorPoint{AltitudeKm: math.Inf(1), RatePerYear: 0.010},
		},
	}
	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			err := table.Validate()
			if !errors.Is(err, ErrInvalidAnchors) {
				t.Fatalf("Validate() = %v, want ErrInvalidAnchors", err)
			}
		})
	}
}

func TestDegradationSeriesAccessors(t *testing.T) {
	s := DegradationSeries{
		Years:         []int{0, 1, 2},
		RelativePower: []float64{1, 0.9, 0.81},
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.EndOfLife() != 0.81 {
		t.Fatalf("EndOfLife() = %v, want 0.81", s.EndOfLife())
	}

	xs, ys := s.XYs()
	if len(xs) != 3 || xs[2] != 2 {
		t.Fatalf("XYs() xs = %v, want [0 1 2]", xs)
	}
	ys[0] = 42
	if s.RelativePower[0] != 1 {
		t.Fatalf("XYs() must copy power values, series mutated to %v", s.RelativePower)
	}

	if (DegradationSeries{}).EndOfLife() != 1 {
		t.Fatalf("empty series EndOfLife should be 1")
	}
}
