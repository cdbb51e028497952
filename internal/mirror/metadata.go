package mirror

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
)

// Attribute names stored on host nodes.
const (
	AttrSide = "mirrorSide"
	AttrSlot = "mirrorIndex"
	AttrAxis = "mirrorAxis"
)

// DefaultAxisChannels are negated on nodes without a mirrorAxis attribute.
var DefaultAxisChannels = []string{"translateX", "rotateY", "rotateZ"}

// Side is a node's position in the mirror system.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// sideEnum is the enum field list written to hosts, in code order.
var sideEnum = []string{"Centre", "Left", "Right"}

func (s Side) String() string {
	switch s {
	case Center:
		return "Center"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) valid() bool { return s >= Center && s <= Right }

// ParseSide accepts a Side, an integer code 0/1/2, or a side name
// (Centre/Center, Left, Right, any case, or their numeric strings).
func ParseSide(v any) (Side, error) {
	switch x := v.(type) {
	case Side:
		if x.valid() {
			return x, nil
		}
	case int:
		if s := Side(x); s.valid() {
			return s, nil
		}
	case int64:
		if s := Side(x); s.valid() {
			return s, nil
		}
	case float64:
		if s := Side(int(x)); float64(int(x)) == x && s.valid() {
			return s, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "centre", "center":
			return Center, nil
		case "left":
			return Left, nil
		case "right":
			return Right, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return ParseSide(n)
		}
	}
	return Center, fmt.Errorf("mirror side %v: %w", v, host.ErrInvalidEnum)
}

// SideValue parses v with ParseSide and returns a pointer suitable for
// RegisterOptions. A nil v yields a nil Side.
func SideValue(v any) (*Side, error) {
	if v == nil {
		return nil, nil
	}
	s, err := ParseSide(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ChannelList returns a pointer to a copy of ch, for RegisterOptions.
func ChannelList(ch ...string) *[]string {
	out := append([]string{}, ch...)
	return &out
}

// MirrorMetadata is the typed view of a node's mirror attributes.
type MirrorMetadata struct {
	Side *Side
	// Slot pairs a Left node with a Right node. Zero means unset.
	Slot int
	// AxisChannels are the channels negated on mirror. Nil means the
	// attribute is absent; a pointer to an empty slice inverts nothing.
	AxisChannels *[]string
}

// Pairable reports whether the node has both a side and a slot.
func (m MirrorMetadata) Pairable() bool {
	return m.Side != nil && m.Slot != 0
}

func joinChannels(ch []string) string {
	return strings.Join(ch, ",")
}

func splitChannels(s string) []string {
	out := []string{}
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
