package main

import (
	"context"
	"fmt"
	"io"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/host/memscene"
	"github.com/banshee-data/mirror/internal/meshmath"
	"github.com/banshee-data/mirror/internal/mirror"
	"github.com/banshee-data/mirror/internal/symmetry"
	"gonum.org/v1/gonum/spatial/r3"
)

// cmdDemo builds a small rig in memory, mirrors its pose and flips a mesh
// so the whole pipeline can be seen without a scene database.
func cmdDemo(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("demo", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	sc := memscene.New()
	reg := mirror.NewRegistry(sc)
	rig := []struct {
		node  host.Node
		side  mirror.Side
		slot  int
		attrs map[string]float64
	}{
		{"arm_L", mirror.Left, 1, map[string]float64{"translateX": 2, "rotateY": 30}},
		{"arm_R", mirror.Right, 1, map[string]float64{"translateX": -2, "rotateY": -10}},
		{"spine", mirror.Center, 1, map[string]float64{"translateX": 0.5, "rotateZ": 5}},
	}
	nodes := make([]host.Node, 0, len(rig))
	for _, r := range rig {
		sc.AddNode(r.node, r3.Vec{})
		side := r.side
		if err := reg.Register(ctx, r.node, mirror.RegisterOptions{Side: &side, Slot: r.slot}); err != nil {
			return err
		}
		for k, v := range r.attrs {
			if err := sc.SetAttr(ctx, r.node, k, v); err != nil {
				return err
			}
		}
		nodes = append(nodes, r.node)
	}

	printPose(ctx, out, "before", sc, nodes)
	e := mirror.NewEngine(sc, mirror.ModeAttribute, cfg.GetTransferChannels(), nil)
	e.Registry.DefaultChannels = cfg.GetDefaultAxisChannels()
	rep, err := e.MirrorData(ctx, nodes)
	if err != nil {
		return err
	}
	printTransferReport(out, rep)
	printPose(ctx, out, "after", sc, nodes)

	sc.AddNode("base", r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: -1}, r3.Vec{Y: 1})
	sc.AddNode("smile", r3.Vec{}, r3.Vec{X: 1.5, Y: 0.2}, r3.Vec{X: -1}, r3.Vec{Y: 1})
	res, err := meshmath.Apply(ctx, sc, sc, "smile", "base", meshmath.Request{
		Mode:      meshmath.Flip,
		Center:    symmetry.CenterPivot,
		Axis:      cfg.GetAxis(),
		Tolerance: cfg.GetTolerance(),
		Result:    meshmath.ResultValues,
		Match:     cfg.GetMatchOptions(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "flip smile onto base: %s\n", res.Report.Summary())
	for i, p := range res.Positions {
		fmt.Fprintf(out, "  %d: (%g, %g, %g)\n", i, p.X, p.Y, p.Z)
	}
	return nil
}

func printPose(ctx context.Context, out io.Writer, label string, attrs host.AttrProvider, nodes []host.Node) {
	fmt.Fprintf(out, "%s:\n", label)
	for _, n := range nodes {
		fmt.Fprintf(out, "  %-6s", n)
		for _, ch := range []string{"translateX", "rotateY", "rotateZ"} {
			v, err := attrs.GetAttr(ctx, n, ch)
			if err != nil {
				fmt.Fprintf(out, " %s=?", ch)
				continue
			}
			fmt.Fprintf(out, " %s=%v", ch, v)
		}
		fmt.Fprintln(out)
	}
}
