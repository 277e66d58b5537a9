package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolSentinel/internal/model"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		RunID:      "run-1",
		Symbol:     "AAPL",
		Source:     "csv",
		WindowDays: 500,
		Returns:    make(model.ReturnSeries, 499),
		Forecast: &model.ForecastResult{
			Variance:   []float64{4e-4},
			Volatility: []float64{0.02},
			Params:     model.GARCHParams{Mu: 1e-3, Omega: 2e-6, Alpha: 0.08, Beta: 0.9},
		},
		Verdict: &model.RiskVerdict{
			ForecastedVolatility: 0.02,
			HistoricalThreshold:  0.015,
			Label:                model.HighRisk,
		},
		Warnings: []string{"first", "second"},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestDB(t)

	rec := FromResult(sampleResult())
	rec.Timestamp = time.Unix(1700000000, 0)
	require.NoError(t, r.RecordRun(rec))

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, 499, got.Observations)
	assert.Equal(t, 0.08, got.Alpha)
	assert.Equal(t, 0.9, got.Beta)
	assert.Equal(t, 0.015, got.Threshold)
	assert.Equal(t, "High Risk", got.Label)
	assert.Equal(t, []string{"first", "second"}, got.Warnings)
	assert.Equal(t, StatusDone, got.Status)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
}

func TestSQLiteRecorder_FailureAndOrdering(t *testing.T) {
	r := openTestDB(t)

	ok := FromResult(sampleResult())
	ok.Timestamp = time.Unix(1700000000, 0)
	require.NoError(t, r.RecordRun(ok))

	failed := FromFailure("AAPL", "csv", 20, errors.New("not enough data"))
	failed.Timestamp = time.Unix(1700000100, 0)
	require.NoError(t, r.RecordRun(failed))
	assert.NotEmpty(t, failed.RunID, "missing run id is generated")

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "not enough data", runs[0].Error)
	assert.Nil(t, runs[0].Warnings)
	assert.Equal(t, StatusDone, runs[1].Status)

	runs, err = r.RecentRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	r := openTestDB(t)
	require.NoError(t, r.RecordRun(FromResult(sampleResult())))
	assert.Error(t, r.RecordRun(FromResult(sampleResult())))
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(FromResult(sampleResult())))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	runs, err := r.RecentRuns(5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}))
	runs, err := r.RecentRuns(3)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
