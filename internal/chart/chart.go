// Package chart is the rendering boundary: callers describe a Figure of
// labelled lines plus display directives and hand it to a Renderer.
package chart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidFigure is returned for figures a Renderer cannot draw.
var ErrInvalidFigure = errors.New("invalid figure")

// Line is one labelled curve. X and Y are parallel.
type Line struct {
	Label string
	X     []float64
	Y     []float64
}

// Figure carries every line plus global display directives.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	Grid        bool
	Legend      bool
	TightLayout bool

	Lines []Line
}

// Renderer draws a Figure. Render is the "render now" call.
type Renderer interface {
	Render(ctx context.Context, fig Figure) error
}

// AddLine appends a labelled line to the figure.
func (f *Figure) AddLine(label string, x, y []float64) {
	f.Lines = append(f.Lines, Line{Label: label, X: x, Y: y})
}

// Validate checks that the figure has at least one drawable line.
func (f Figure) Validate() error {
	if len(f.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrInvalidFigure)
	}
	for i, l := range f.Lines {
		if len(l.X) == 0 {
			return fmt.Errorf("%w: line %d (%q) is empty", ErrInvalidFigure, i, l.Label)
		}
		if len(l.X) != len(l.Y) {
			return fmt.Errorf("%w: line %d (%q) has %d x values and %d y values",
				ErrInvalidFigure, i, l.Label, len(l.X), len(l.Y))
		}
		if floats.HasNaN(l.X) || floats.HasNaN(l.Y) {
			return fmt.Errorf("%w: line %d (%q) contains NaN", ErrInvalidFigure, i, l.Label)
		}
	}
	return nil
}

// Bounds returns the data extents across all lines.
func (f Figure) Bounds() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, l := range f.Lines {
		if len(l.X) == 0 || len(l.Y) == 0 {
			continue
		}
		xmin = math.Min(xmin, floats.Min(l.X))
		xmax = math.Max(xmax, floats.Max(l.X))
		ymin = math.Min(ymin, floats.Min(l.Y))
		ymax = math.Max(ymax, floats.Max(l.Y))
	}
	return xmin, xmax, ymin, ymax
}
