package host

import (
	"fmt"
	"math"
	"slices"
)

// Coerce converts value to the storage form of an attribute of type typ.
// Float attributes store float64, int and enum attributes store int (enum
// values may be given by name), bool stores bool and string stores string.
func Coerce(typ AttrType, enumValues []string, value any) (any, error) {
	switch typ {
	case AttrFloat:
		return ToFloat(value)
	case AttrInt:
		f, err := ToFloat(value)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("value %v is not an integer", value)
		}
		return int(f), nil
	case AttrBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		default:
			f, err := ToFloat(value)
			if err != nil {
				return nil, err
			}
			return f != 0, nil
		}
	case AttrString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("value %v (%T) is not a string", value, value)
		}
		return s, nil
	case AttrEnum:
		if s, ok := value.(string); ok {
			idx := slices.Index(enumValues, s)
			if idx < 0 {
				return nil, fmt.Errorf("enum value %q not in %v: %w", s, enumValues, ErrInvalidEnum)
			}
			return idx, nil
		}
		f, err := ToFloat(value)
		if err != nil {
			return nil, err
		}
		idx := int(f)
		if float64(idx) != f || idx < 0 || idx >= len(enumValues) {
			return nil, fmt.Errorf("enum index %v out of range for %v: %w", value, enumValues, ErrInvalidEnum)
		}
		return idx, nil
	}
	return nil, fmt.Errorf("unsupported attribute type %s", typ)
}

// ZeroValue returns the default stored value for typ.
func ZeroValue(typ AttrType) any {
	switch typ {
	case AttrFloat:
		return 0.0
	case AttrInt, AttrEnum:
		return 0
	case AttrBool:
		return false
	default:
		return ""
	}
}
