package symmetry

import "math"

// AssignMinCost solves the rectangular assignment problem for an n×m cost
// matrix by successive shortest augmenting paths over reduced costs
// (Hungarian method with row and column potentials), O(max(n,m)³). It
// returns assignments[i] = column for row i, or -1 when row i is
// unassigned. +Inf entries are forbidden and never selected.
func AssignMinCost(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	result := make([]int, n)
	for i := range result {
		result[i] = -1
	}
	if m == 0 {
		return result
	}

	a := newAssigner(cost, n, m)
	for row := 0; row < a.dim; row++ {
		a.augment(row)
	}
	for i := 0; i < n; i++ {
		if j := a.rowCol[i]; j < m && !math.IsInf(cost[i][j], 1) {
			result[i] = j
		}
	}
	return result
}

// assigner holds a square, finite copy of the cost matrix and the dual
// potentials. Every assigned cell is tight: c - rowPot - colPot == 0.
type assigner struct {
	dim      int
	c        [][]float64
	rowPot   []float64
	colPot   []float64
	rowCol   []int // column held by each row, -1 if none
	colOwner []int // row holding each column, -1 if none
}

// newAssigner pads cost to a square matrix. Padding and forbidden cells get
// a finite cost above any achievable total.
func newAssigner(cost [][]float64, n, m int) *assigner {
	dim := max(n, m)
	big := 1.0
	for _, row := range cost {
		for _, v := range row {
			if !math.IsInf(v, 1) {
				big += math.Abs(v)
			}
		}
	}
	big *= float64(dim) + 1

	a := &assigner{
		dim:      dim,
		c:        make([][]float64, dim),
		rowPot:   make([]float64, dim),
		colPot:   make([]float64, dim),
		rowCol:   make([]int, dim),
		colOwner: make([]int, dim),
	}
	for i := range a.c {
		a.c[i] = make([]float64, dim)
		for j := range a.c[i] {
			a.c[i][j] = big
			if i < n && j < m && !math.IsInf(cost[i][j], 1) {
				a.c[i][j] = cost[i][j]
			}
		}
		a.rowCol[i] = -1
		a.colOwner[i] = -1
	}
	return a
}

func (a *assigner) reduced(i, j int) float64 {
	return a.c[i][j] - a.rowPot[i] - a.colPot[j]
}

// augment grows the matching by one row. A Dijkstra search from root over
// columns finds the cheapest path to a free column; potentials are then
// shifted so the new path stays tight, and the path is flipped.
func (a *assigner) augment(root int) {
	dist := make([]float64, a.dim)
	via := make([]int, a.dim) // previous column on the path, -1 for root
	scanned := make([]bool, a.dim)
	for j := range dist {
		dist[j] = a.reduced(root, j)
		via[j] = -1
	}

	free := -1
	for free < 0 {
		next, best := -1, math.Inf(1)
		for j, d := range dist {
			if !scanned[j] && d < best {
				next, best = j, d
			}
		}
		scanned[next] = true
		owner := a.colOwner[next]
		if owner < 0 {
			free = next
			break
		}
		for j := range dist {
			if scanned[j] {
				continue
			}
			if d := best + a.reduced(owner, j); d < dist[j] {
				dist[j] = d
				via[j] = next
			}
		}
	}

	total := dist[free]
	a.rowPot[root] += total
	for j, ok := range scanned {
		if !ok || j == free {
			continue
		}
		shift := total - dist[j]
		a.rowPot[a.colOwner[j]] += shift
		a.colPot[j] -= shift
	}

	for j := free; ; {
		prev := via[j]
		if prev < 0 {
			a.colOwner[j], a.rowCol[root] = root, j
			return
		}
		owner := a.colOwner[prev]
		a.colOwner[j], a.rowCol[owner] = owner, j
		j = prev
	}
}
