package sim

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Track is a named series of (X, Y) points, e.g. a state component over time.
type Track struct {
	// Name is displayed in the plot legend
	Name string
	// X stores the point abscissae
	X []float64
	// Y stores the point ordinates
	Y []float64
	// Scatter draws the track as points instead of a line
	Scatter bool
}

// NewTrackPlot creates new plot of the given tracks.
// The first track is drawn as a thick line, e.g. the ground truth.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * no tracks are supplied
// * either of the tracks has less than 2 points or mismatched X and Y lengths
// * gonum plot fails to be created
func NewTrackPlot(title, xLabel, yLabel string, tracks ...Track) (*plot.Plot, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no tracks supplied")
	}

	for _, t := range tracks {
		if len(t.X) != len(t.Y) || len(t.X) < 2 {
			return nil, fmt.Errorf("invalid track %q dimensions: %d x %d", t.Name, len(t.X), len(t.Y))
		}
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, t := range tracks {
		pts := make(plotter.XYs, len(t.X))
		for j := range t.X {
			pts[j].X = t.X[j]
			pts[j].Y = t.Y[j]
		}

		if t.Scatter {
			s, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create scatter %q: %w", t.Name, err)
			}
			s.GlyphStyle.Color = plotutil.Color(i)
			s.GlyphStyle.Shape = draw.CrossGlyph{}
			s.GlyphStyle.Radius = vg.Points(2)

			p.Add(s)
			p.Legend.Add(t.Name, s)
			continue
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line %q: %w", t.Name, err)
		}
		l.LineStyle.Color = plotutil.Color(i)
		if i == 0 {
			l.LineStyle.Width = vg.Points(2)
		} else {
			l.LineStyle.Dashes = plotutil.Dashes(i)
		}

		p.Add(l)
		p.Legend.Add(t.Name, l)
	}

	return p, nil
}
