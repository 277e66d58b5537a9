package risk

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolSentinel/internal/calculator"
	"VolSentinel/internal/model"
)

func returnsOf(values []float64) model.ReturnSeries {
	start := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make(model.ReturnSeries, len(values))
	for i, v := range values {
		out[i] = model.ReturnPoint{Time: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.01 * math.Sin(float64(i)*0.7) * (1 + float64(i%13)/10)
	}
	return out
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	returns := returnsOf(wave(120))

	base, err := Classify(0, returns, 20, 75)
	require.NoError(t, err)
	threshold := base.HistoricalThreshold
	require.Greater(t, threshold, 0.0)

	equal, err := Classify(threshold, returns, 20, 75)
	require.NoError(t, err)
	assert.Equal(t, model.LowRisk, equal.Label)

	above, err := Classify(math.Nextafter(threshold, math.Inf(1)), returns, 20, 75)
	require.NoError(t, err)
	assert.Equal(t, model.HighRisk, above.Label)

	below, err := Classify(math.Nextafter(threshold, 0), returns, 20, 75)
	require.NoError(t, err)
	assert.Equal(t, model.LowRisk, below.Label)
}

func TestClassify_ThresholdIsPercentileOfRollingStd(t *testing.T) {
	values := wave(80)
	verdict, err := Classify(0.5, returnsOf(values), 20, 75)
	require.NoError(t, err)

	rolling, err := calculator.RollingStdDev(values, 20)
	require.NoError(t, err)
	require.Len(t, rolling, 61)
	want, err := calculator.Percentile(rolling, 75)
	require.NoError(t, err)

	assert.Equal(t, want, verdict.HistoricalThreshold)
	assert.Equal(t, model.HighRisk, verdict.Label)
	assert.Equal(t, 20, verdict.RollingWindow)
	assert.Equal(t, 75.0, verdict.Percentile)
	assert.Equal(t, rolling, verdict.History)
}

func TestClassify_HistoryTail(t *testing.T) {
	verdict, err := Classify(0, returnsOf(wave(400)), 20, 75)
	require.NoError(t, err)
	assert.Len(t, verdict.History, HistoryTail)
}

func TestClassify_InsufficientHistory(t *testing.T) {
	_, err := Classify(0.01, returnsOf(wave(19)), 20, 75)
	var herr *InsufficientHistoryError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 19, herr.Available)
	assert.Equal(t, 20, herr.Required)

	verdict, err := Classify(0.01, returnsOf(wave(20)), 20, 75)
	require.NoError(t, err)
	assert.Len(t, verdict.History, 1)
}

func TestClassify_Deterministic(t *testing.T) {
	returns := returnsOf(wave(200))
	a, err := Classify(0.012, returns, 20, 75)
	require.NoError(t, err)
	b, err := Classify(0.012, returns, 20, 75)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		vol, threshold float64
		want           model.RiskLabel
	}{
		{0.02, 0.01, model.HighRisk},
		{0.01, 0.01, model.LowRisk},
		{0.005, 0.01, model.LowRisk},
		{0, 0, model.LowRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.vol, tt.threshold), "vol %v threshold %v", tt.vol, tt.threshold)
	}
}
