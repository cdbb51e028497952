package meshmath

import (
	"context"
	"fmt"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
	"github.com/banshee-data/mirror/internal/symmetry"
)

// ResultMode picks what Apply does with the combined positions.
type ResultMode int

const (
	// ResultNew duplicates the target and writes into the duplicate.
	ResultNew ResultMode = iota
	// ResultModify writes into the target itself.
	ResultModify
	// ResultValues only returns the positions.
	ResultValues
)

func (r ResultMode) String() string {
	switch r {
	case ResultNew:
		return "new"
	case ResultModify:
		return "modify"
	case ResultValues:
		return "values"
	}
	return fmt.Sprintf("ResultMode(%d)", int(r))
}

// ParseResultMode accepts new/n, modify/self/m and values/v.
func ParseResultMode(s string) (ResultMode, error) {
	switch s {
	case "new", "n", "":
		return ResultNew, nil
	case "modify", "self", "m":
		return ResultModify, nil
	case "values", "v":
		return ResultValues, nil
	}
	return ResultNew, fmt.Errorf("result mode %q: %w", s, host.ErrInvalidEnum)
}

// Request describes one Apply call.
type Request struct {
	Mode       Mode
	Space      host.Space
	Center     symmetry.CenterMode
	Axis       symmetry.Axis
	Tolerance  float64
	Multiplier float64
	Result     ResultMode
	Match      symmetry.MatchOptions
}

// Result is what Apply produced.
type Result struct {
	// Node is the mesh that received the positions; empty for ResultValues.
	Node      host.Node
	Positions []Point
	// Report is the target's symmetry for mirror modes, nil otherwise.
	Report *symmetry.Report
}

// Apply reads source and target positions from geo, combines them and
// stores the result according to req.Result. life is only used for
// ResultNew and may be nil otherwise.
func Apply(ctx context.Context, geo host.GeometryProvider, life host.LifecycleProvider, source, target host.Node, req Request) (*Result, error) {
	src, err := geo.Positions(ctx, source, req.Space)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s positions: %w", source, err)
	}
	tgt, err := geo.Positions(ctx, target, req.Space)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s positions: %w", target, err)
	}

	res := &Result{}
	opts := Options{Multiplier: req.Multiplier}
	if req.Mode.NeedsReport() {
		plane, err := targetPlane(ctx, geo, target, tgt, req)
		if err != nil {
			return nil, err
		}
		r, err := symmetry.MatchWith(tgt, plane, req.Match)
		if err != nil {
			return nil, err
		}
		opts.Report = r
		res.Report = r
	}

	out, err := Combine(src, tgt, req.Mode, opts)
	if err != nil {
		return nil, err
	}
	res.Positions = out
	monitoring.Debugf("meshmath %s: source=%s target=%s space=%s result=%s points=%d",
		req.Mode, source, target, req.Space, req.Result, len(out))

	switch req.Result {
	case ResultValues:
		return res, nil
	case ResultModify:
		res.Node = target
	case ResultNew:
		if life == nil {
			return nil, fmt.Errorf("result mode %s needs a lifecycle provider", req.Result)
		}
		dup, err := life.Duplicate(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to duplicate %s: %w", target, err)
		}
		if rn, ok := life.(host.Renamer); ok {
			mult := req.Multiplier
			if mult == 0 {
				mult = req.Mode.DefaultMultiplier()
			}
			name := fmt.Sprintf("%s_from_%s_%s_x%g_result", target, source, req.Mode, mult)
			if renamed, err := rn.Rename(ctx, dup, name); err == nil {
				dup = renamed
			} else {
				monitoring.Logf("meshmath: keeping name %s: %v", dup, err)
			}
		}
		res.Node = dup
	default:
		return nil, fmt.Errorf("result mode %d: %w", int(req.Result), host.ErrInvalidEnum)
	}

	for i, p := range out {
		if err := geo.SetPosition(ctx, res.Node, i, p, req.Space); err != nil {
			err = fmt.Errorf("failed to move %s vertex %d: %w", res.Node, i, err)
			if req.Result == ResultNew {
				// A half-written duplicate is dropped, cancelled or not.
				if derr := life.Delete(context.WithoutCancel(ctx), res.Node); derr != nil {
					monitoring.Warnf("meshmath: delete partial result %s: %v", res.Node, derr)
				}
			}
			return nil, err
		}
	}
	return res, nil
}

// targetPlane resolves the mirror plane in the same space as the positions
// being combined. In object space the pivot is the local origin and the
// world origin sits at minus the pivot.
func targetPlane(ctx context.Context, geo host.GeometryProvider, target host.Node, tgt []Point, req Request) (symmetry.Plane, error) {
	if req.Space == host.WorldSpace {
		return symmetry.ResolvePlane(ctx, geo, target, req.Center, req.Axis, req.Tolerance)
	}
	plane := symmetry.Plane{Axis: req.Axis, Tolerance: req.Tolerance}
	switch req.Center {
	case symmetry.CenterPivot:
		plane.Origin = 0
	case symmetry.CenterWorld:
		piv, err := geo.Pivot(ctx, target)
		if err != nil {
			return symmetry.Plane{}, fmt.Errorf("failed to read pivot of %s: %w", target, err)
		}
		plane.Origin = -symmetry.Component(piv, req.Axis)
	case symmetry.CenterBoundingBox:
		plane.Origin = symmetry.Component(symmetry.BoundsCenter(tgt), req.Axis)
	default:
		return symmetry.Plane{}, fmt.Errorf("center mode %d: %w", int(req.Center), host.ErrInvalidEnum)
	}
	return plane, plane.Validate()
}
