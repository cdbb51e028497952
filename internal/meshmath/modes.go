package meshmath

import (
	"fmt"

	"github.com/banshee-data/mirror/internal/symmetry"
)

// Mode is a per-point binary operator.
type Mode int

const (
	Add Mode = iota
	Subtract
	Multiply
	Average
	Difference
	AddDiff
	SubtractDiff
	Blend
	Flip
	XOnly
	YOnly
	ZOnly
	XBlend
	YBlend
	ZBlend
	SymPos
	SymNeg
	CopyTo
)

var modeNames = [...]string{
	Add:          "add",
	Subtract:     "subtract",
	Multiply:     "multiply",
	Average:      "average",
	Difference:   "difference",
	AddDiff:      "addDiff",
	SubtractDiff: "subtractDiff",
	Blend:        "blend",
	Flip:         "flip",
	XOnly:        "xOnly",
	YOnly:        "yOnly",
	ZOnly:        "zOnly",
	XBlend:       "xBlend",
	YBlend:       "yBlend",
	ZBlend:       "zBlend",
	SymPos:       "symPos",
	SymNeg:       "symNeg",
	CopyTo:       "copyTo",
}

// modeAliases are the short forms accepted on the command line and by
// older tool presets.
var modeAliases = map[string]Mode{
	"a": Add, "+": Add,
	"s": Subtract, "sub": Subtract, "-": Subtract,
	"mult": Multiply, "m": Multiply,
	"avg": Average,
	"d": Difference, "diff": Difference,
	"addDifference": AddDiff, "+diff": AddDiff, "ad": AddDiff,
	"subtractDifference": SubtractDiff, "sd": SubtractDiff, "-diff": SubtractDiff,
	"b": Blend, "blendshape": Blend,
	"f": Flip,
	"xo": XOnly, "yo": YOnly, "zo": ZOnly,
	"xb": XBlend, "yb": YBlend, "zb": ZBlend,
	"sym+": SymPos, "sp": SymPos, "symPositive": SymPos,
	"sym-": SymNeg, "sn": SymNeg, "symNegative": SymNeg,
	"transfer": CopyTo, "reset": CopyTo, "r": CopyTo,
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a canonical mode name or alias. Unknown names yield
// ErrNotImplemented.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	if m, ok := modeAliases[s]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("mode %q: %w", s, ErrNotImplemented)
}

// NeedsReport reports whether the mode mirrors through a symmetry map.
func (m Mode) NeedsReport() bool {
	return m == Flip || m == SymPos || m == SymNeg
}

// DefaultMultiplier is the multiplier used when none is given: 0.5 for
// blend, 1 otherwise.
func (m Mode) DefaultMultiplier() float64 {
	if m == Blend {
		return 0.5
	}
	return 1
}

// axis returns the axis isolated by the xOnly/xBlend family.
func (m Mode) axis() symmetry.Axis {
	switch m {
	case YOnly, YBlend:
		return symmetry.AxisY
	case ZOnly, ZBlend:
		return symmetry.AxisZ
	default:
		return symmetry.AxisX
	}
}
