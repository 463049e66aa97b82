package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidTLE is returned for element sets that cannot be propagated.
var ErrInvalidTLE = errors.New("invalid TLE")

// AltitudeProfile summarises geodetic altitude over a propagation window.
type AltitudeProfile struct {
	MeanKm  float64
	MinKm   float64
	MaxKm   float64
	Samples int
}

// OrbitAltitude propagates a two-line element set with SGP4 from start
// across span at the given step and reports the geodetic altitude it
// sweeps. go-satellite works in kilometres throughout.
func OrbitAltitude(line1, line2 string, start time.Time, span, step time.Duration) (AltitudeProfile, error) {
	if step <= 0 {
		return AltitudeProfile{}, fmt.Errorf("%w: propagation step must be positive, got %s", ErrInvalidArgument, step)
	}
	if span < 0 {
		return AltitudeProfile{}, fmt.Errorf("%w: propagation span must be non-negative, got %s", ErrInvalidArgument, span)
	}
	if err := checkTLE(line1, line2); err != nil {
		return AltitudeProfile{}, err
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)

	n := int(span/step) + 1
	alts := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * step).UTC()
		year, month, day := t.Date()
		hour, min, sec := t.Clock()

		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))
		alt, _, _ := satellite.ECIToLLA(posECI, gmst)
		if math.IsNaN(alt) || math.IsInf(alt, 0) {
			return AltitudeProfile{}, fmt.Errorf("%w: propagation diverged at %s", ErrInvalidTLE, t.Format(time.RFC3339))
		}
		alts = append(alts, alt)
	}

	return AltitudeProfile{
		MeanKm:  stat.Mean(alts, nil),
		MinKm:   floats.Min(alts),
		MaxKm:   floats.Max(alts),
		Samples: len(alts),
	}, nil
}

// checkTLE rejects element sets go-satellite would fail to parse. The
// library aborts the process on any field it cannot convert, so every span
// it reads is rebuilt here exactly as ParseTLE builds it and converted the
// same way.
func checkTLE(line1, line2 string) error {
	if len(strings.TrimRight(line1, " \r\n")) < 69 || len(strings.TrimRight(line2, " \r\n")) < 69 {
		return fmt.Errorf("%w: lines must be 69 characters", ErrInvalidTLE)
	}
	if line1[0] != '1' || line2[0] != '2' {
		return fmt.Errorf("%w: unexpected line numbers %q/%q", ErrInvalidTLE, line1[0], line2[0])
	}
	if line1[2:7] != line2[2:7] {
		return fmt.Errorf("%w: catalog numbers differ (%s vs %s)", ErrInvalidTLE, line1[2:7], line2[2:7])
	}

	ints := []tleField{
		{"catalog number", strings.TrimSpace(line1[2:7])},
		{"epoch year", line1[18:20]},
	}
	for _, f := range ints {
		if _, err := strconv.Atoi(f.raw); err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidTLE, f.name, f.raw)
		}
	}

	floats := []tleField{
		{"epoch day", line1[20:32]},
		{"ndot", stripSpaces(line1[33:43])},
		{"nddot", stripSpaces(line1[44:45] + "." + line1[45:50] + "e" + line1[50:52])},
		{"bstar", stripSpaces(line1[53:54] + "." + line1[54:59] + "e" + line1[59:61])},
		{"inclination", stripSpaces(line2[8:16])},
		{"raan", stripSpaces(line2[17:25])},
		{"eccentricity", stripSpaces("." + line2[26:33])},
		{"argument of perigee", stripSpaces(line2[34:42])},
		{"mean anomaly", stripSpaces(line2[43:51])},
		{"mean motion", stripSpaces(line2[52:63])},
	}
	for _, f := range floats {
		if _, err := strconv.ParseFloat(f.raw, 64); err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidTLE, f.name, f.raw)
		}
	}
	return nil
}

type tleField struct {
	name string
	raw  string
}

// stripSpaces removes at most two blanks, as go-satellite does.
func stripSpaces(s string) string {
	return strings.Replace(s, " ", "", 2)
}

// TLEEpoch decodes the epoch (YYDDD.DDDDDDDD, UTC) from line 1 of a TLE.
func TLEEpoch(line1 string) (time.Time, error) {
	if len(line1) < 32 || line1[0] != '1' {
		return time.Time{}, fmt.Errorf("%w: line 1 too short for epoch", ErrInvalidTLE)
	}
	raw := strings.TrimSpace(line1[18:32])
	if len(raw) < 3 {
		return time.Time{}, fmt.Errorf("%w: epoch %q", ErrInvalidTLE, raw)
	}
	yy, err := strconv.Atoi(raw[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch year %q", ErrInvalidTLE, raw[:2])
	}
	day, err := strconv.ParseFloat(raw[2:], 64)
	if err != nil || day < 1 || day >= 367 {
		return time.Time{}, fmt.Errorf("%w: epoch day %q", ErrInvalidTLE, raw[2:])
	}

	// Two-digit years 57-99 belong to the 1900s.
	year := 2000 + yy
	if yy >= 57 {
		year = 1900 + yy
	}
	offset := time.Duration((day - 1) * float64(24*time.Hour))
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Add(offset), nil
}
