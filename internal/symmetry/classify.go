package symmetry

import "math"

// Classification is the provisional split produced before pairing.
//
// Positive holds indices whose offset is at least the tolerance. Negative
// holds indices at or beyond -tolerance, and Ambiguous the ones strictly
// inside the tolerance band. Centrality is not decided here: an ambiguous
// point may still pair with a positive point that sits just past the band,
// so both Negative and Ambiguous indices are pairing candidates.
type Classification struct {
	Plane      Plane
	Offsets    []float64
	Positive   []int
	Negative   []int
	Ambiguous  []int
	Candidates []int // Negative ∪ Ambiguous, ascending
}

// Classify labels every position against plane.
func Classify(positions []Point, plane Plane) (Classification, error) {
	if err := plane.Validate(); err != nil {
		return Classification{}, err
	}
	c := Classification{
		Plane:   plane,
		Offsets: make([]float64, len(positions)),
	}
	tol := plane.Tolerance
	for i, p := range positions {
		off := plane.Offset(p)
		c.Offsets[i] = off
		switch {
		case off >= tol:
			c.Positive = append(c.Positive, i)
		case off <= -tol:
			c.Negative = append(c.Negative, i)
			c.Candidates = append(c.Candidates, i)
		default:
			c.Ambiguous = append(c.Ambiguous, i)
			c.Candidates = append(c.Candidates, i)
		}
	}
	return c, nil
}

// Settle labels an unpaired index: inside the tolerance band it is center,
// otherwise it is asymmetrical.
func (c Classification) Settle(i int) Label {
	if math.Abs(c.Offsets[i]) <= c.Plane.Tolerance {
		return LabelCenter
	}
	return LabelAsymmetrical
}
