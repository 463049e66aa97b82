package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default canvas size, matching a 6x4 inch figure.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// FileRenderer draws figures with gonum/plot and writes them to Path. The
// image format follows the file extension (png, svg, pdf, ...).
type FileRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewFileRenderer returns a renderer with the default canvas size.
func NewFileRenderer(path string) *FileRenderer {
	return &FileRenderer{Path: path, Width: DefaultWidth, Height: DefaultHeight}
}

// Render builds the plot and saves it to r.Path.
func (r *FileRenderer) Render(ctx context.Context, fig Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Path == "" {
		return fmt.Errorf("render figure: empty output path")
	}
	p, err := Build(fig)
	if err != nil {
		return fmt.Errorf("render figure: %w", err)
	}
	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("render figure: %w", err)
		}
	}
	w, h := r.size()
	if err := p.Save(w, h, r.Path); err != nil {
		return fmt.Errorf("save figure to %s: %w", r.Path, err)
	}
	return nil
}

func (r *FileRenderer) size() (vg.Length, vg.Length) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Build converts a Figure into a gonum plot.
func Build(fig Figure) (*plot.Plot, error) {
	if err := fig.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel

	if fig.Grid {
		p.Add(plotter.NewGrid())
	}

	for i, l := range fig.Lines {
		xys := make(plotter.XYs, len(l.X))
		for j := range l.X {
			xys[j].X = l.X[j]
			xys[j].Y = l.Y[j]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", l.Label, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if fig.Legend && l.Label != "" {
			p.Legend.Add(l.Label, line)
		}
	}
	p.Legend.Top = true

	if fig.TightLayout {
		xmin, xmax, ymin, ymax := fig.Bounds()
		p.X.Min, p.X.Max = xmin, xmax
		p.Y.Min, p.Y.Max = ymin, ymax
	}
	return p, nil
}
