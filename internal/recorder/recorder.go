package recorder

import (
	"strings"
	"time"

	"VolSentinel/internal/model"
)

const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// RunRecord is the persisted summary of one analysis run. Fitted models
// themselves are never stored.
type RunRecord struct {
	RunID        string
	Timestamp    time.Time
	Symbol       string
	Source       string
	WindowDays   int
	Observations int
	Mu           float64
	Omega        float64
	Alpha        float64
	Beta         float64
	ForecastVol  float64
	Threshold    float64
	Label        string
	Warnings     []string
	Status       string
	Error        string
}

// FromResult summarises a successful run.
func FromResult(res *model.AnalysisResult) *RunRecord {
	r := &RunRecord{
		RunID:        res.RunID,
		Timestamp:    time.Now(),
		Symbol:       res.Symbol,
		Source:       res.Source,
		WindowDays:   res.WindowDays,
		Observations: len(res.Returns),
		Warnings:     res.Warnings,
		Status:       StatusDone,
	}
	if res.Forecast != nil {
		p := res.Forecast.Params
		r.Mu, r.Omega, r.Alpha, r.Beta = p.Mu, p.Omega, p.Alpha, p.Beta
	}
	if res.Verdict != nil {
		r.ForecastVol = res.Verdict.ForecastedVolatility
		r.Threshold = res.Verdict.HistoricalThreshold
		r.Label = string(res.Verdict.Label)
	}
	return r
}

// FromFailure summarises a run that ended in the failed stage.
func FromFailure(symbol, source string, windowDays int, err error) *RunRecord {
	return &RunRecord{
		Timestamp:  time.Now(),
		Symbol:     symbol,
		Source:     source,
		WindowDays: windowDays,
		Status:     StatusFailed,
		Error:      err.Error(),
	}
}

func joinWarnings(w []string) string { return strings.Join(w, "\n") }

func splitWarnings(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}
