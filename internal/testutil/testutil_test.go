package testutil

import (
	"testing"
)

func TestVecNear(t *testing.T) {
	tests := []struct {
		name string
		a, b [3]float64
		eps  float64
		want bool
	}{
		{"identical", [3]float64{1, 2, 3}, [3]float64{1, 2, 3}, 0, true},
		{"within eps", [3]float64{1, 2, 3}, [3]float64{1.0005, 2, 3}, 0.001, true},
		{"outside eps", [3]float64{1, 2, 3}, [3]float64{1, 2.01, 3}, 0.001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VecNear(V(tt.a[0], tt.a[1], tt.a[2]), V(tt.b[0], tt.b[1], tt.b[2]), tt.eps)
			if got != tt.want {
				t.Errorf("VecNear() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirroredCloud(t *testing.T) {
	const n, center = 25, 4
	pts := MirroredCloud(7, n, center, 2.5, 0.01)

	if len(pts) != 2*n+center {
		t.Fatalf("len = %d, want %d", len(pts), 2*n+center)
	}
	for k := 0; k < n; k++ {
		a, b := pts[k], pts[n+k]
		if a.X-2.5 < 0.01 {
			t.Errorf("point %d offset %v below minimum", k, a.X-2.5)
		}
		if !VecNear(V(2*2.5-a.X, a.Y, a.Z), b, Epsilon) {
			t.Errorf("point %d mirror = %v, want reflection of %v", n+k, b, a)
		}
	}
	for k := 2 * n; k < len(pts); k++ {
		if pts[k].X != 2.5 {
			t.Errorf("center point %d has x = %v", k, pts[k].X)
		}
	}
}

func TestMirroredCloud_Deterministic(t *testing.T) {
	a := MirroredCloud(42, 10, 2, 0, 0.1)
	b := MirroredCloud(42, 10, 2, 0, 0.1)
	AssertVecsNear(t, a, b, 0)
}

func TestAssertHelpers(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, errSentinel{})
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }
