package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingStdDev(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got, err := RollingStdDev(values, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Each window is three consecutive integers: sample std dev is 1.
	for _, v := range got {
		assert.InDelta(t, 1.0, v, 1e-12)
	}
}

func TestRollingStdDev_OnlyFullWindows(t *testing.T) {
	got, err := RollingStdDev([]float64{1, 2, 3}, 20)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = RollingStdDev(make([]float64, 20), 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)
}

func TestRollingStdDev_SampleDenominator(t *testing.T) {
	got, err := RollingStdDev([]float64{2, 4}, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, math.Sqrt2, got[0], 1e-12)
}

func TestRollingStdDev_InvalidWindow(t *testing.T) {
	_, err := RollingStdDev([]float64{1, 2, 3}, 1)
	assert.Error(t, err)
}
