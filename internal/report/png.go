package report

import (
	"fmt"

	"github.com/banshee-data/mirror/internal/symmetry"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WritePNG plots positions coloured by their label in r, with the mirror
// plane drawn as a dashed line, and saves the image to path. The format
// follows the file extension (.png, .svg, .pdf).
func WritePNG(path string, positions []symmetry.Point, r *symmetry.Report) error {
	groups, lo, hi, err := project(positions, r)
	if err != nil {
		return err
	}
	vAxis, _ := r.Plane.Axis.Others()

	p := plot.New()
	p.Title.Text = title(r)
	p.X.Label.Text = r.Plane.Axis.String()
	p.Y.Label.Text = vAxis.String()

	plane, err := plotter.NewLine(plotter.XYs{
		{X: r.Plane.Origin, Y: lo},
		{X: r.Plane.Origin, Y: hi},
	})
	if err != nil {
		return fmt.Errorf("plane line: %w", err)
	}
	plane.Width = vg.Points(1)
	plane.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	plane.Color = labelColors[symmetry.LabelCenter]
	p.Add(plane)

	for _, l := range labels {
		pts := groups[l]
		if len(pts) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			xys[i] = plotter.XY{X: pt.H, Y: pt.V}
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("%s scatter: %w", l, err)
		}
		s.GlyphStyle.Color = labelColors[l]
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("%s (%d)", l, len(pts)), s)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
