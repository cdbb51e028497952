// Package report renders a symmetry report for debugging: a static PNG
// scatter through gonum/plot and an interactive HTML scatter through
// go-echarts. Both project the points onto the mirror axis (horizontal)
// and the first of its other axes (vertical).
package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/banshee-data/mirror/internal/symmetry"
)

// labels is the series order shared by both renderers.
var labels = []symmetry.Label{
	symmetry.LabelPositive,
	symmetry.LabelNegative,
	symmetry.LabelCenter,
	symmetry.LabelAsymmetrical,
}

var labelColors = map[symmetry.Label]color.RGBA{
	symmetry.LabelPositive:     {R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	symmetry.LabelNegative:     {R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	symmetry.LabelCenter:       {R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
	symmetry.LabelAsymmetrical: {R: 0xd6, G: 0x27, B: 0x28, A: 255},
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// projected is one point in plot coordinates.
type projected struct {
	Index int
	H, V  float64
}

// project splits positions by label and returns the extent of the vertical
// coordinate for drawing the plane.
func project(positions []symmetry.Point, r *symmetry.Report) (map[symmetry.Label][]projected, float64, float64, error) {
	if r == nil {
		return nil, 0, 0, fmt.Errorf("nil symmetry report")
	}
	if len(positions) != r.Count {
		return nil, 0, 0, fmt.Errorf("report covers %d points, got %d positions", r.Count, len(positions))
	}
	vAxis, _ := r.Plane.Axis.Others()
	groups := make(map[symmetry.Label][]projected, len(labels))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range positions {
		pt := projected{
			Index: i,
			H:     symmetry.Component(p, r.Plane.Axis),
			V:     symmetry.Component(p, vAxis),
		}
		l := r.Label(i)
		groups[l] = append(groups[l], pt)
		lo, hi = math.Min(lo, pt.V), math.Max(hi, pt.V)
	}
	if len(positions) == 0 {
		lo, hi = -1, 1
	}
	return groups, lo, hi, nil
}

func title(r *symmetry.Report) string {
	if r.IsSymmetric() {
		return fmt.Sprintf("Symmetric about %s = %g", r.Plane.Axis, r.Plane.Origin)
	}
	return fmt.Sprintf("%d asymmetrical of %d about %s = %g", len(r.Asymmetrical), r.Count, r.Plane.Axis, r.Plane.Origin)
}
