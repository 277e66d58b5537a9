package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolSentinel/internal/collector"
	"VolSentinel/internal/config"
	"VolSentinel/internal/model"
	"VolSentinel/internal/pipeline"
	"VolSentinel/internal/recorder"
)

type fixedEstimator struct{ vol float64 }

func (f fixedEstimator) FitAndForecast(_ model.ReturnSeries, horizon int) (*model.ForecastResult, error) {
	res := &model.ForecastResult{Variance: make([]float64, horizon), Volatility: make([]float64, horizon)}
	for i := range res.Volatility {
		res.Volatility[i] = f.vol
		res.Variance[i] = f.vol * f.vol
	}
	return res, nil
}

type memRecorder struct {
	mu   sync.Mutex
	runs []recorder.RunRecord
}

func (m *memRecorder) RecordRun(rec *recorder.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *rec)
	return nil
}

func (m *memRecorder) RecentRuns(limit int) ([]recorder.RunRecord, error) { return m.runs, nil }
func (m *memRecorder) Close() error                                       { return nil }

type captureNotifier struct {
	sent []string
	err  error
}

func (c *captureNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	c.sent = append(c.sent, text)
	return c.err
}

func newTestScheduler(fetcher collector.Fetcher, vol float64, n *captureNotifier) (*Scheduler, *memRecorder) {
	p := pipeline.New(config.DefaultAnalysis())
	p.Estimator = fixedEstimator{vol: vol}
	rec := &memRecorder{}
	col := collector.NewCollector(fetcher, "MOCK", 300)
	s := NewScheduler(context.Background(), col, p, rec, n, 250)
	return s, rec
}

func TestRunNow_HighRiskSendsAlert(t *testing.T) {
	n := &captureNotifier{}
	s, rec := newTestScheduler(&collector.MockFetcher{Seed: 1}, 1.0, n)

	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.HighRisk, res.Verdict.Label)
	assert.Len(t, res.Returns, 250)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.StatusDone, rec.runs[0].Status)
	assert.Equal(t, res.RunID, rec.runs[0].RunID)
	assert.Equal(t, "mock", rec.runs[0].Source)

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "High Risk")
}

func TestRunNow_LowRiskIsQuiet(t *testing.T) {
	n := &captureNotifier{}
	s, rec := newTestScheduler(&collector.MockFetcher{Seed: 2}, 1e-9, n)

	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.LowRisk, res.Verdict.Label)
	assert.Len(t, rec.runs, 1)
	assert.Empty(t, n.sent)
}

func TestRunNow_FailureIsRecorded(t *testing.T) {
	bars := make([]model.OHLCV, 10)
	for i := range bars {
		bars[i] = model.OHLCV{Time: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC), Close: 100 + float64(i)}
	}
	n := &captureNotifier{}
	s, rec := newTestScheduler(&collector.MockFetcher{DailyData: bars}, 0.01, n)

	_, err := s.RunNow(context.Background())
	var derr *pipeline.InsufficientDataError
	require.True(t, errors.As(err, &derr))

	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.StatusFailed, rec.runs[0].Status)
	assert.NotEmpty(t, rec.runs[0].Error)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Not enough data")
}

func TestRunNow_NotifierErrorDoesNotFailRun(t *testing.T) {
	n := &captureNotifier{err: errors.New("telegram down")}
	s, _ := newTestScheduler(&collector.MockFetcher{Seed: 3}, 1.0, n)

	_, err := s.RunNow(context.Background())
	assert.NoError(t, err)
}

func TestRunNow_WithoutNotifier(t *testing.T) {
	p := pipeline.New(config.DefaultAnalysis())
	p.Estimator = fixedEstimator{vol: 1.0}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), collector.NewCollector(&collector.MockFetcher{Seed: 4}, "MOCK", 200), p, rec, nil, 150)

	_, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Len(t, rec.runs, 1)
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(&collector.MockFetcher{}, 0.01, &captureNotifier{})

	assert.Error(t, s.Register("not a cron spec"))
	require.NoError(t, s.Register("0 30 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	s.Start()
	s.Stop()
}
