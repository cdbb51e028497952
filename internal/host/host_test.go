package host

import (
	"errors"
	"testing"
)

func TestCoerce(t *testing.T) {
	enum := []string{"Centre", "Left", "Right"}
	tests := []struct {
		name    string
		typ     AttrType
		value   any
		want    any
		wantErr bool
	}{
		{"float from int", AttrFloat, 3, 3.0, false},
		{"float from bool", AttrFloat, true, 1.0, false},
		{"float from string", AttrFloat, "3", nil, true},
		{"int from whole float", AttrInt, 4.0, 4, false},
		{"int from fraction", AttrInt, 4.5, nil, true},
		{"bool from number", AttrBool, 2.0, true, false},
		{"bool from zero", AttrBool, 0, false, false},
		{"string", AttrString, "torso", "torso", false},
		{"string from number", AttrString, 1.0, nil, true},
		{"enum by name", AttrEnum, "Right", 2, false},
		{"enum by index", AttrEnum, 1.0, 1, false},
		{"enum unknown name", AttrEnum, "Up", nil, true},
		{"enum index out of range", AttrEnum, 3, nil, true},
		{"enum negative index", AttrEnum, -1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.typ, enum, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Coerce(%s, %v) error = %v, wantErr %v", tt.typ, tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Coerce(%s, %v) = %v (%T), want %v (%T)", tt.typ, tt.value, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoerce_EnumErrorsWrapInvalidEnum(t *testing.T) {
	if _, err := Coerce(AttrEnum, []string{"a"}, "b"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("err = %v, want ErrInvalidEnum", err)
	}
}

func TestZeroValue(t *testing.T) {
	for typ, want := range map[AttrType]any{
		AttrFloat:  0.0,
		AttrInt:    0,
		AttrEnum:   0,
		AttrBool:   false,
		AttrString: "",
	} {
		if got := ZeroValue(typ); got != want {
			t.Errorf("ZeroValue(%s) = %v, want %v", typ, got, want)
		}
	}
}

func TestTimeRangeContains(t *testing.T) {
	var all *TimeRange
	if !all.Contains(-1e9) {
		t.Error("nil range should contain every time")
	}
	r := &TimeRange{Start: 1, End: 10}
	for tm, want := range map[float64]bool{0.5: false, 1: true, 5: true, 10: true, 10.5: false} {
		if got := r.Contains(tm); got != want {
			t.Errorf("Contains(%v) = %v, want %v", tm, got, want)
		}
	}
}

func TestParseSpace(t *testing.T) {
	for in, want := range map[string]Space{"": ObjectSpace, "o": ObjectSpace, "object": ObjectSpace, "w": WorldSpace, "ws": WorldSpace} {
		got, err := ParseSpace(in)
		if err != nil || got != want {
			t.Errorf("ParseSpace(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSpace("local"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("ParseSpace(local) err = %v, want ErrInvalidEnum", err)
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{2.0, float32(2), 2, int64(2)} {
		if f, err := ToFloat(v); err != nil || f != 2 {
			t.Errorf("ToFloat(%T) = %v, %v", v, f, err)
		}
	}
	if _, err := ToFloat("2"); err == nil {
		t.Error("ToFloat(string) should fail")
	}
}
