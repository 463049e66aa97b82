package main

import (
	"flag"
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"

	"github.com/signalsfoundry/array-degradation/internal/chart"
)

// ISS element set used as the default reference orbit.
const (
	defaultReferenceName = "ISS (ZARYA)"
	defaultReferenceTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	defaultReferenceTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

// config holds the ambient settings of a run. Model parameters (horizon,
// altitudes, anchors) are fixed and not configurable.
type config struct {
	OutPath  string
	WidthIn  float64
	HeightIn float64

	PushGateway string

	ReferenceName string
	ReferenceTLE1 string
	ReferenceTLE2 string
}

func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("degradation", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.OutPath, "out", "degradation.png", "output image path; format follows the extension (png, svg, pdf)")
	fs.Float64Var(&cfg.WidthIn, "width", 6, "figure width in inches")
	fs.Float64Var(&cfg.HeightIn, "height", 4, "figure height in inches")
	fs.StringVar(&cfg.PushGateway, "pushgateway", "", "optional Prometheus Pushgateway URL to push run metrics to")
	fs.StringVar(&cfg.ReferenceName, "reference-name", defaultReferenceName, "name of the reference spacecraft")
	fs.StringVar(&cfg.ReferenceTLE1, "reference-tle1", defaultReferenceTLE1, "line 1 of the reference orbit TLE (empty to skip)")
	fs.StringVar(&cfg.ReferenceTLE2, "reference-tle2", defaultReferenceTLE2, "line 2 of the reference orbit TLE (empty to skip)")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.OutPath == "" {
		return config{}, fmt.Errorf("-out must not be empty")
	}
	if cfg.WidthIn <= 0 || cfg.HeightIn <= 0 {
		return config{}, fmt.Errorf("figure size must be positive, got %gx%g in", cfg.WidthIn, cfg.HeightIn)
	}
	return cfg, nil
}

func (c config) hasReference() bool {
	return c.ReferenceTLE1 != "" && c.ReferenceTLE2 != ""
}

func (c config) renderer() *chart.FileRenderer {
	return &chart.FileRenderer{
		Path:   c.OutPath,
		Width:  vg.Length(c.WidthIn) * vg.Inch,
		Height: vg.Length(c.HeightIn) * vg.Inch,
	}
}
