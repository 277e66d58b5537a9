package calculator

import (
	"errors"
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0-100) of values, interpolating
// linearly between the two closest ranks at position p/100*(n-1).
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values for percentile calculation")
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, errors.New("percentile must be within [0, 100]")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}
