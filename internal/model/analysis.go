package model

// AnalysisResult bundles everything one pipeline run produces.
type AnalysisResult struct {
	RunID      string          `json:"run_id"`
	Symbol     string          `json:"symbol"`
	Source     string          `json:"source"`
	WindowDays int             `json:"window_days"`
	Preview    []OHLCV         `json:"-"`
	Returns    ReturnSeries    `json:"returns"`
	Forecast   *ForecastResult `json:"forecast"`
	Verdict    *RiskVerdict    `json:"verdict"`
	Warnings   []string        `json:"warnings"`
	Stages     []string        `json:"stages"`
}
