package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// RollingStdDev computes the sample standard deviation (n-1 denominator) of
// every full window of the given length. The first window-1 positions have
// no value and are omitted, so the result has len(values)-window+1 entries.
func RollingStdDev(values []float64, window int) ([]float64, error) {
	if window < 2 {
		return nil, errors.New("rolling window must be at least 2")
	}
	if len(values) < window {
		return []float64{}, nil
	}
	out := make([]float64, 0, len(values)-window+1)
	for end := window; end <= len(values); end++ {
		out = append(out, stat.StdDev(values[end-window:end], nil))
	}
	return out, nil
}
