package symmetry

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is an immutable 3-component position. It carries no identity; a
// point is referred to by its index in the input list.
type Point = r3.Vec

// DefaultTolerance matches the host tools' default vertex tolerance.
const DefaultTolerance = 0.0001

// Axis selects the mirror plane normal.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("axis %q: %w", s, host.ErrInvalidEnum)
}

// Others returns the two axes checked for coincidence when pairing.
// X pairs on (Y, Z), Y on (X, Z) and Z on (Y, X).
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case AxisY:
		return AxisX, AxisZ
	case AxisZ:
		return AxisY, AxisX
	default:
		return AxisY, AxisZ
	}
}

// Component returns p's coordinate along axis a.
func Component(p Point, a Axis) float64 {
	switch a {
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	default:
		return p.X
	}
}

// WithComponent returns p with its coordinate along a replaced by v.
func WithComponent(p Point, a Axis, v float64) Point {
	switch a {
	case AxisY:
		p.Y = v
	case AxisZ:
		p.Z = v
	default:
		p.X = v
	}
	return p
}

// CenterMode picks how the plane origin is derived.
type CenterMode int

const (
	CenterPivot CenterMode = iota
	CenterWorld
	CenterBoundingBox
)

func (m CenterMode) String() string {
	switch m {
	case CenterPivot:
		return "pivot"
	case CenterWorld:
		return "world"
	case CenterBoundingBox:
		return "boundingBox"
	}
	return fmt.Sprintf("CenterMode(%d)", int(m))
}

// ParseCenterMode accepts the canonical names and their short aliases
// (p, w, bb).
func ParseCenterMode(s string) (CenterMode, error) {
	switch strings.TrimSpace(s) {
	case "pivot", "p":
		return CenterPivot, nil
	case "world", "w":
		return CenterWorld, nil
	case "boundingBox", "boundingbox", "bb", "bbox":
		return CenterBoundingBox, nil
	}
	return CenterPivot, fmt.Errorf("center mode %q: %w", s, host.ErrInvalidEnum)
}

// Plane is an axis-aligned mirror plane at Origin along Axis.
type Plane struct {
	Axis      Axis
	Origin    float64
	Tolerance float64
}

// Validate checks the plane invariants.
func (p Plane) Validate() error {
	if p.Axis < AxisX || p.Axis > AxisZ {
		return fmt.Errorf("plane axis %d: %w", int(p.Axis), host.ErrInvalidEnum)
	}
	if math.IsNaN(p.Tolerance) || p.Tolerance < 0 {
		return fmt.Errorf("plane tolerance must be >= 0, got %v", p.Tolerance)
	}
	if math.IsNaN(p.Origin) || math.IsInf(p.Origin, 0) {
		return fmt.Errorf("plane origin must be finite, got %v", p.Origin)
	}
	return nil
}

// Offset returns the signed distance of pt from the plane along the axis.
func (p Plane) Offset(pt Point) float64 {
	return Component(pt, p.Axis) - p.Origin
}

// Mirror reflects pt across the plane. At Origin 0 this negates the axis
// component.
func (p Plane) Mirror(pt Point) Point {
	return WithComponent(pt, p.Axis, 2*p.Origin-Component(pt, p.Axis))
}

// BoundsCenter returns the center of the axis-aligned bounds of pts, or the
// zero point when pts is empty.
func BoundsCenter(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = Point{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = Point{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return r3.Scale(0.5, r3.Add(lo, hi))
}

// ResolvePlane derives the plane origin for node n from the host.
func ResolvePlane(ctx context.Context, geo host.GeometryProvider, n host.Node, mode CenterMode, axis Axis, tolerance float64) (Plane, error) {
	plane := Plane{Axis: axis, Tolerance: tolerance}
	switch mode {
	case CenterPivot:
		piv, err := geo.Pivot(ctx, n)
		if err != nil {
			return Plane{}, fmt.Errorf("failed to read pivot of %s: %w", n, err)
		}
		plane.Origin = Component(piv, axis)
	case CenterWorld:
		plane.Origin = 0
	case CenterBoundingBox:
		lo, hi, err := geo.BoundingBox(ctx, n)
		if err != nil {
			return Plane{}, fmt.Errorf("failed to read bounding box of %s: %w", n, err)
		}
		plane.Origin = (Component(lo, axis) + Component(hi, axis)) / 2
	default:
		return Plane{}, fmt.Errorf("center mode %d: %w", int(mode), host.ErrInvalidEnum)
	}
	if err := plane.Validate(); err != nil {
		return Plane{}, err
	}
	return plane, nil
}
