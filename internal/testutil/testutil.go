// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common point-set builders and tolerance
// assertions used by the symmetry, meshmath and mirror tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the default tolerance for float comparisons in tests.
const Epsilon = 1e-9

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// V is shorthand for an r3.Vec literal.
func V(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// VecNear reports whether a and b are within eps on every component.
func VecNear(a, b r3.Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// AssertVecsNear fails the test when got and want differ in length or any
// pair of points differs by more than eps on a component.
func AssertVecsNear(t *testing.T, got, want []r3.Vec, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !VecNear(got[i], want[i], eps) {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// MirroredCloud builds a point set that is symmetric across the plane
// x = origin by construction: n random positive-side points followed by
// their mirrors, then `center` points on the plane. Point k (k < n) pairs
// with point n+k. Positive-side offsets are at least minOffset.
func MirroredCloud(seed int64, n, center int, origin, minOffset float64) []r3.Vec {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]r3.Vec, 0, 2*n+center)
	for i := 0; i < n; i++ {
		pts = append(pts, r3.Vec{
			X: origin + minOffset + rng.Float64()*10,
			Y: rng.Float64()*20 - 10,
			Z: rng.Float64()*20 - 10,
		})
	}
	for i := 0; i < n; i++ {
		p := pts[i]
		p.X = 2*origin - p.X
		pts = append(pts, p)
	}
	for i := 0; i < center; i++ {
		pts = append(pts, r3.Vec{X: origin, Y: rng.Float64()*20 - 10, Z: rng.Float64()*20 - 10})
	}
	return pts
}
