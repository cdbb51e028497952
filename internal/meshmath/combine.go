package meshmath

import (
	"fmt"
	"slices"

	"github.com/banshee-data/mirror/internal/monitoring"
	"github.com/banshee-data/mirror/internal/symmetry"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a 3D position.
type Point = symmetry.Point

// Options tunes Combine.
type Options struct {
	// Multiplier scales the operation. Zero means unset and selects the
	// mode's DefaultMultiplier.
	Multiplier float64
	// Report is the symmetry of the target; required by flip, symPos and
	// symNeg and ignored by every other mode.
	Report *symmetry.Report
}

// Combine applies mode to each (source, target) pair and returns a new
// list. Inputs are never modified.
func Combine(source, target []Point, mode Mode, opts Options) ([]Point, error) {
	if len(source) != len(target) {
		return nil, fmt.Errorf("%s: source has %d points, target %d: %w", mode, len(source), len(target), ErrShapeMismatch)
	}
	m := opts.Multiplier
	if m == 0 {
		m = mode.DefaultMultiplier()
	}

	if mode.NeedsReport() {
		return mirror(source, target, mode, opts.Report)
	}
	if mode == CopyTo {
		return slices.Clone(source), nil
	}

	out := make([]Point, len(target))
	for i, t := range target {
		p, err := combinePoint(mode, source[i], t, m)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func combinePoint(mode Mode, s, t Point, m float64) (Point, error) {
	diff := r3.Sub(t, s)
	switch mode {
	case Add:
		return r3.Scale(m, r3.Add(t, s)), nil
	case Subtract, Difference:
		return r3.Scale(m, diff), nil
	case Multiply:
		return Point{X: t.X * s.X * m, Y: t.Y * s.Y * m, Z: t.Z * s.Z * m}, nil
	case Average:
		return r3.Scale(m/2, r3.Add(t, s)), nil
	case AddDiff:
		return r3.Add(t, r3.Scale(m, diff)), nil
	case SubtractDiff, Blend:
		return r3.Sub(t, r3.Scale(m, diff)), nil
	case XOnly, YOnly, ZOnly:
		a := mode.axis()
		return symmetry.WithComponent(Point{}, a, symmetry.Component(diff, a)*m), nil
	case XBlend, YBlend, ZBlend:
		a := mode.axis()
		return symmetry.WithComponent(t, a, symmetry.Component(t, a)-symmetry.Component(diff, a)*m), nil
	}
	return Point{}, fmt.Errorf("%s: %w", mode, ErrNotImplemented)
}

// mirror implements flip, symPos and symNeg. The result starts as a copy of
// source; asymmetrical indices keep their source value.
func mirror(source, target []Point, mode Mode, r *symmetry.Report) ([]Point, error) {
	if r == nil {
		return nil, fmt.Errorf("%s: %w", mode, ErrMissingReport)
	}
	if err := r.Validate(len(target)); err != nil {
		return nil, fmt.Errorf("%s: symmetry report does not fit target: %w", mode, err)
	}
	if !r.IsSymmetric() {
		monitoring.Warnf("%s: %d asymmetrical points left untouched", mode, len(r.Asymmetrical))
	}

	plane := r.Plane
	out := slices.Clone(source)

	propagate := func(from []int) {
		for _, i := range from {
			m := plane.Mirror(source[i])
			for _, j := range r.SymMap[i] {
				out[j] = m
			}
		}
	}

	switch mode {
	case Flip:
		// Both directions of every pair: each slot takes its partner's
		// mirrored value.
		propagate(r.Positive)
		propagate(r.Negative)
		for _, i := range r.Center {
			out[i] = plane.Mirror(source[i])
		}
	case SymPos, SymNeg:
		if mode == SymPos {
			propagate(r.Positive)
		} else {
			propagate(r.Negative)
		}
		for _, i := range r.Center {
			out[i] = r3.Scale(0.5, r3.Add(source[i], plane.Mirror(source[i])))
		}
	}
	return out, nil
}
