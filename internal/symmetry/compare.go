package symmetry

import "gonum.org/v1/gonum/spatial/r3"

// IsEquivalent reports whether a and b have the same length and every pair
// of corresponding points lies within tolerance of each other.
func IsEquivalent(a, b []Point, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if r3.Norm(r3.Sub(a[i], b[i])) > tolerance {
			return false
		}
	}
	return true
}

// ComparePoints returns the indices of candidates that are equivalent to
// base (shouldMatch) or that differ from it (!shouldMatch). mirrorctl
// compare uses it to find blend targets that move no vertex.
func ComparePoints(base []Point, candidates [][]Point, tolerance float64, shouldMatch bool) []int {
	var out []int
	for i, c := range candidates {
		if IsEquivalent(base, c, tolerance) == shouldMatch {
			out = append(out, i)
		}
	}
	return out
}
