package symmetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsEquivalent(t *testing.T) {
	base := []Point{v(0, 0, 0), v(1, 1, 1)}
	tests := []struct {
		name  string
		other []Point
		want  bool
	}{
		{"identical", []Point{v(0, 0, 0), v(1, 1, 1)}, true},
		{"within tolerance", []Point{v(0.00005, 0, 0), v(1, 1, 1)}, true},
		{"moved vertex", []Point{v(0, 0, 0), v(1, 1.5, 1)}, false},
		{"different count", []Point{v(0, 0, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEquivalent(base, tt.other, DefaultTolerance); got != tt.want {
				t.Errorf("IsEquivalent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparePoints(t *testing.T) {
	base := []Point{v(0, 0, 0), v(1, 0, 0)}
	candidates := [][]Point{
		{v(0, 0, 0), v(1, 0, 0)},
		{v(0, 0.2, 0), v(1, 0, 0)},
		{v(0, 0, 0), v(1, 0, 0.00001)},
	}
	if diff := cmp.Diff([]int{0, 2}, ComparePoints(base, candidates, DefaultTolerance, true)); diff != "" {
		t.Errorf("matching mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, ComparePoints(base, candidates, DefaultTolerance, false)); diff != "" {
		t.Errorf("non-matching mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignMinCost(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name string
		cost [][]float64
		want []int
	}{
		{"empty", nil, nil},
		{"no columns", [][]float64{{}, {}}, []int{-1, -1}},
		{"square", [][]float64{{4, 1, 3}, {2, 0, 5}, {3, 2, 2}}, []int{1, 0, 2}},
		{"more rows", [][]float64{{1}, {0.5}}, []int{-1, 0}},
		{"forbidden", [][]float64{{inf, 1}, {inf, inf}}, []int{1, -1}},
		{"more cols", [][]float64{{5, 1, 9}}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, AssignMinCost(tt.cost)); diff != "" {
				t.Errorf("AssignMinCost mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// bestCost tries every assignment of rows to distinct columns, allowing a
// row to stay unassigned only when no column is left for it.
func bestCost(cost [][]float64) float64 {
	m := len(cost[0])
	used := make([]bool, m)
	var walk func(i int) float64
	walk = func(i int) float64 {
		if i == len(cost) {
			return 0
		}
		best := math.Inf(1)
		for j := 0; j < m; j++ {
			if used[j] || math.IsInf(cost[i][j], 1) {
				continue
			}
			used[j] = true
			best = math.Min(best, cost[i][j]+walk(i+1))
			used[j] = false
		}
		return best
	}
	return walk(0)
}

func TestAssignMinCost_MatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(5)
		cost := make([][]float64, n)
		for i := range cost {
			cost[i] = make([]float64, n+rng.Intn(2))
			for j := range cost[i] {
				cost[i][j] = math.Round(rng.Float64()*100) / 10
			}
		}
		got := AssignMinCost(cost)
		seen := map[int]bool{}
		total := 0.0
		for i, j := range got {
			if j < 0 {
				t.Fatalf("trial %d: row %d unassigned in %v", trial, i, cost)
			}
			if seen[j] {
				t.Fatalf("trial %d: column %d assigned twice: %v", trial, j, got)
			}
			seen[j] = true
			total += cost[i][j]
		}
		if want := bestCost(cost); math.Abs(total-want) > 1e-9 {
			t.Errorf("trial %d: cost %v, optimum %v (assignment %v, matrix %v)", trial, total, want, got, cost)
		}
	}
}
