package symmetry

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
)

// Strategy selects the pairing algorithm.
type Strategy int

const (
	// FirstMatch records every candidate that passes the tolerance gates,
	// in index order. It is O(P·N) in the positive and negative counts,
	// fine for rig-scale meshes and slow for dense scans.
	FirstMatch Strategy = iota
	// Optimal solves a 1:1 minimum-cost assignment over the gated pairs.
	Optimal
)

func (s Strategy) String() string {
	if s == Optimal {
		return "optimal"
	}
	return "first"
}

// ParseStrategy accepts "first" (or "") and "optimal".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "first", "firstMatch":
		return FirstMatch, nil
	case "optimal":
		return Optimal, nil
	}
	return FirstMatch, fmt.Errorf("match strategy %q: %w", s, host.ErrInvalidEnum)
}

// MatchOptions tunes Match.
type MatchOptions struct {
	Strategy Strategy
}

// Match classifies positions against plane and pairs mirrored points using
// the default first-match strategy. An empty input yields an empty report.
func Match(positions []Point, plane Plane) (*Report, error) {
	return MatchWith(positions, plane, MatchOptions{})
}

// MatchWith is Match with explicit options.
func MatchWith(positions []Point, plane Plane, opts MatchOptions) (*Report, error) {
	c, err := Classify(positions, plane)
	if err != nil {
		return nil, err
	}
	r := newReport(plane, len(positions))

	switch opts.Strategy {
	case FirstMatch:
		pairFirstMatch(positions, c, r)
	case Optimal:
		pairOptimal(positions, c, r)
	default:
		return nil, fmt.Errorf("match strategy %d: %w", int(opts.Strategy), host.ErrInvalidEnum)
	}

	for _, i := range c.Positive {
		settle(c, r, i, LabelPositive)
	}
	for _, j := range c.Candidates {
		settle(c, r, j, LabelNegative)
	}
	sort.Ints(r.Center)
	sort.Ints(r.Asymmetrical)

	monitoring.Debugf("symmetry match (%s): %s", opts.Strategy, r.Summary())
	return r, nil
}

func settle(c Classification, r *Report, i int, paired Label) {
	if len(r.SymMap[i]) > 0 {
		if paired == LabelPositive {
			r.Positive = append(r.Positive, i)
		} else {
			r.Negative = append(r.Negative, i)
		}
		return
	}
	if c.Settle(i) == LabelCenter {
		r.Center = append(r.Center, i)
	} else {
		r.Asymmetrical = append(r.Asymmetrical, i)
	}
}

// pairCost returns the gated mismatch between positive i and candidate j,
// and false when the pair fails any tolerance test.
func pairCost(positions []Point, c Classification, i, j int) (float64, bool) {
	tol := c.Plane.Tolerance
	a2, a3 := c.Plane.Axis.Others()
	dAxis := math.Abs(c.Offsets[i] - (-c.Offsets[j]))
	if dAxis > tol {
		return 0, false
	}
	d2 := math.Abs(Component(positions[i], a2) - Component(positions[j], a2))
	d3 := math.Abs(Component(positions[i], a3) - Component(positions[j], a3))
	if d2 >= tol || d3 >= tol {
		return 0, false
	}
	return dAxis + d2 + d3, true
}

func link(r *Report, i, j int) {
	r.SymMap[i] = append(r.SymMap[i], j)
	r.SymMap[j] = append(r.SymMap[j], i)
}

func pairFirstMatch(positions []Point, c Classification, r *Report) {
	for _, i := range c.Positive {
		for _, j := range c.Candidates {
			if _, ok := pairCost(positions, c, i, j); ok {
				link(r, i, j)
			}
		}
	}
}

func pairOptimal(positions []Point, c Classification, r *Report) {
	if len(c.Positive) == 0 || len(c.Candidates) == 0 {
		return
	}
	cost := make([][]float64, len(c.Positive))
	for pi, i := range c.Positive {
		row := make([]float64, len(c.Candidates))
		for ci, j := range c.Candidates {
			if d, ok := pairCost(positions, c, i, j); ok {
				row[ci] = d
			} else {
				row[ci] = math.Inf(1)
			}
		}
		cost[pi] = row
	}
	for pi, ci := range AssignMinCost(cost) {
		if ci >= 0 {
			link(r, c.Positive[pi], c.Candidates[ci])
		}
	}
}

// MatchNode resolves the plane from the host and matches n's world-space
// positions.
func MatchNode(ctx context.Context, geo host.GeometryProvider, n host.Node, mode CenterMode, axis Axis, tolerance float64, opts MatchOptions) (*Report, error) {
	plane, err := ResolvePlane(ctx, geo, n, mode, axis, tolerance)
	if err != nil {
		return nil, err
	}
	positions, err := geo.Positions(ctx, n, host.WorldSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions of %s: %w", n, err)
	}
	r, err := MatchWith(positions, plane, opts)
	if err != nil {
		return nil, err
	}
	if !r.IsSymmetric() {
		monitoring.Logf("%s: %d asymmetrical points (%s)", n, len(r.Asymmetrical), r.Summary())
	}
	return r, nil
}
