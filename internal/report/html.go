package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/banshee-data/mirror/internal/symmetry"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders an interactive scatter of positions, one series per
// label, and writes the page to w. Hovering a point shows its index.
func WriteHTML(w io.Writer, positions []symmetry.Point, r *symmetry.Report) error {
	groups, lo, hi, err := project(positions, r)
	if err != nil {
		return err
	}
	vAxis, _ := r.Plane.Axis.Others()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mesh Symmetry", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title(r), Subtitle: r.Summary()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: r.Plane.Axis.String(), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: vAxis.String(), NameLocation: "middle", NameGap: 30}),
	)

	for _, l := range labels {
		pts := groups[l]
		if len(pts) == 0 {
			continue
		}
		data := make([]opts.ScatterData, len(pts))
		for i, pt := range pts {
			data[i] = opts.ScatterData{Name: fmt.Sprintf("#%d", pt.Index), Value: []interface{}{pt.H, pt.V}}
		}
		scatter.AddSeries(l.String(), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex(labelColors[l])}),
		)
	}
	scatter.AddSeries("plane", []opts.ScatterData{
		{Name: "plane", Value: []interface{}{r.Plane.Origin, lo}},
		{Name: "plane", Value: []interface{}{r.Plane.Origin, hi}},
	}, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hex(labelColors[symmetry.LabelCenter])}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
