package host

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Node is an opaque handle to a host scene node.
type Node string

// ErrNoAttr is returned by AttrProvider.GetAttr when the attribute does not
// exist on the node. Callers test for it with errors.Is.
var ErrNoAttr = errors.New("attribute does not exist")

// ErrNoNode is returned when a node handle does not resolve in the host.
var ErrNoNode = errors.New("node does not exist")

// ErrInvalidEnum marks a bad side, axis, center-mode, space or result-mode
// value. It is shared by every engine package so callers can test one error.
var ErrInvalidEnum = errors.New("invalid enum value")

// AttrType is the storage type of a node attribute.
type AttrType int

const (
	AttrFloat AttrType = iota
	AttrInt
	AttrBool
	AttrString
	AttrEnum
)

func (t AttrType) String() string {
	switch t {
	case AttrFloat:
		return "float"
	case AttrInt:
		return "int"
	case AttrBool:
		return "bool"
	case AttrString:
		return "string"
	case AttrEnum:
		return "enum"
	default:
		return fmt.Sprintf("AttrType(%d)", int(t))
	}
}

// TransformChannels are the keyable transform attributes hosts create on
// every node. Scale channels default to 1, the rest to 0.
var TransformChannels = []string{
	"translateX", "translateY", "translateZ",
	"rotateX", "rotateY", "rotateZ",
	"scaleX", "scaleY", "scaleZ",
}

// TimeRange restricts keyframe operations to [Start, End]. A nil *TimeRange
// means the full curve.
type TimeRange struct {
	Start float64
	End   float64
}

// Contains reports whether t lies inside the range (inclusive).
func (r *TimeRange) Contains(t float64) bool {
	if r == nil {
		return true
	}
	return t >= r.Start && t <= r.End
}

// GeometryProvider exposes vertex positions and spatial reference points.
type GeometryProvider interface {
	Positions(ctx context.Context, n Node, space Space) ([]r3.Vec, error)
	SetPosition(ctx context.Context, n Node, index int, p r3.Vec, space Space) error
	BoundingBox(ctx context.Context, n Node) (min, max r3.Vec, err error)
	Pivot(ctx context.Context, n Node) (r3.Vec, error)
}

// AttrProvider reads and writes node metadata.
//
// GetAttr values are float64, int, bool or string. Enum attributes are
// reported as their integer index.
type AttrProvider interface {
	GetAttr(ctx context.Context, n Node, name string) (any, error)
	SetAttr(ctx context.Context, n Node, name string, value any) error
	HasAttr(ctx context.Context, n Node, name string) (bool, error)
	AddAttr(ctx context.Context, n Node, name string, typ AttrType, enumValues []string) error
	RemoveAttr(ctx context.Context, n Node, name string) error
}

// AnimProvider manipulates keyed animation on node channels.
type AnimProvider interface {
	// CopyKeys replaces dst's keys on channel with src's. It returns false
	// when src has no keys on that channel.
	CopyKeys(ctx context.Context, src, dst Node, channel string, tr *TimeRange) (bool, error)
	ScaleKeys(ctx context.Context, n Node, channel string, factor float64, tr *TimeRange) error
}

// KeyClearer is an optional AnimProvider extension that removes keys.
type KeyClearer interface {
	ClearKeys(ctx context.Context, n Node, channel string, tr *TimeRange) error
}

// LifecycleProvider creates and destroys nodes.
type LifecycleProvider interface {
	Duplicate(ctx context.Context, n Node) (Node, error)
	Delete(ctx context.Context, n Node) error
}

// Space selects object or world coordinates for geometry queries.
type Space int

const (
	ObjectSpace Space = iota
	WorldSpace
)

func (s Space) String() string {
	if s == WorldSpace {
		return "world"
	}
	return "object"
}

// ParseSpace accepts "object"/"o"/"os" and "world"/"w"/"ws".
func ParseSpace(s string) (Space, error) {
	switch s {
	case "object", "o", "os", "":
		return ObjectSpace, nil
	case "world", "w", "ws":
		return WorldSpace, nil
	}
	return ObjectSpace, fmt.Errorf("space %q: %w", s, ErrInvalidEnum)
}

// ToFloat converts a numeric attribute value to float64.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
}

// Renamer is an optional LifecycleProvider extension. Hosts that implement
// it let the engine give generated nodes descriptive names.
type Renamer interface {
	Rename(ctx context.Context, n Node, name string) (Node, error)
}
