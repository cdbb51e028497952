package symmetry

import (
	"fmt"
	"slices"
)

// Label is the final classification of one index in a Report.
type Label int

const (
	LabelUnknown Label = iota
	LabelPositive
	LabelNegative
	LabelCenter
	LabelAsymmetrical
)

func (l Label) String() string {
	switch l {
	case LabelPositive:
		return "positive"
	case LabelNegative:
		return "negative"
	case LabelCenter:
		return "center"
	case LabelAsymmetrical:
		return "asymmetrical"
	}
	return "unknown"
}

// Report is the result of a symmetry match.
//
// Every input index appears in exactly one of Center, Positive, Negative or
// Asymmetrical. Positive and Negative only hold indices that found at least
// one partner. SymMap is symmetric and never keyed by a center index. All
// index slices are ascending.
type Report struct {
	Plane        Plane
	Count        int
	Center       []int
	Positive     []int
	Negative     []int
	Asymmetrical []int
	SymMap       map[int][]int
}

func newReport(plane Plane, n int) *Report {
	return &Report{
		Plane:  plane,
		Count:  n,
		SymMap: make(map[int][]int),
	}
}

// IsSymmetric reports whether every point is either paired or center.
func (r *Report) IsSymmetric() bool {
	return len(r.Asymmetrical) == 0
}

// Partners returns the indices paired with i, in discovery order.
func (r *Report) Partners(i int) []int {
	return r.SymMap[i]
}

// Label returns which set holds index i.
func (r *Report) Label(i int) Label {
	switch {
	case contains(r.Positive, i):
		return LabelPositive
	case contains(r.Negative, i):
		return LabelNegative
	case contains(r.Center, i):
		return LabelCenter
	case contains(r.Asymmetrical, i):
		return LabelAsymmetrical
	}
	return LabelUnknown
}

func contains(sorted []int, i int) bool {
	_, ok := slices.BinarySearch(sorted, i)
	return ok
}

// Validate checks the report invariants against an input of n points.
func (r *Report) Validate(n int) error {
	if r.Count != n {
		return fmt.Errorf("report covers %d points, input has %d", r.Count, n)
	}
	seen := make([]Label, n)
	mark := func(set []int, l Label) error {
		for _, i := range set {
			if i < 0 || i >= n {
				return fmt.Errorf("%s index %d out of range [0,%d)", l, i, n)
			}
			if seen[i] != LabelUnknown {
				return fmt.Errorf("index %d is both %s and %s", i, seen[i], l)
			}
			seen[i] = l
		}
		return nil
	}
	for _, s := range []struct {
		set   []int
		label Label
	}{
		{r.Positive, LabelPositive},
		{r.Negative, LabelNegative},
		{r.Center, LabelCenter},
		{r.Asymmetrical, LabelAsymmetrical},
	} {
		if err := mark(s.set, s.label); err != nil {
			return err
		}
	}
	for i, l := range seen {
		if l == LabelUnknown {
			return fmt.Errorf("index %d is not classified", i)
		}
	}
	for i, partners := range r.SymMap {
		if seen[i] == LabelCenter {
			return fmt.Errorf("center index %d has partners", i)
		}
		for _, j := range partners {
			if !slices.Contains(r.SymMap[j], i) {
				return fmt.Errorf("symmetry map not symmetric: %d -> %d", i, j)
			}
		}
	}
	return nil
}

// Summary is a one-line description suitable for logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("axis=%s origin=%.6g tol=%g points=%d pos=%d neg=%d center=%d asym=%d",
		r.Plane.Axis, r.Plane.Origin, r.Plane.Tolerance, r.Count,
		len(r.Positive), len(r.Negative), len(r.Center), len(r.Asymmetrical))
}
