package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	tests := []struct {
		values []float64
		p      float64
		want   float64
	}{
		{[]float64{1, 2, 3, 4}, 75, 3.25},
		{[]float64{4, 3, 2, 1}, 75, 3.25},
		{[]float64{1, 2, 3, 4, 5}, 50, 3},
		{[]float64{1, 2, 3, 4, 5}, 0, 1},
		{[]float64{1, 2, 3, 4, 5}, 100, 5},
		{[]float64{7}, 75, 7},
		{[]float64{10, 20}, 25, 12.5},
	}
	for _, tt := range tests {
		got, err := Percentile(tt.values, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "values %v p %.0f", tt.values, tt.p)
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Percentile(values, 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentile_Errors(t *testing.T) {
	_, err := Percentile(nil, 75)
	assert.Error(t, err)
	_, err = Percentile([]float64{1}, 101)
	assert.Error(t, err)
	_, err = Percentile([]float64{1}, math.NaN())
	assert.Error(t, err)
}
