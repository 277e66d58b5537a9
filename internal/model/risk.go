package model

// RiskLabel is the coarse classification of a volatility forecast.
type RiskLabel string

const (
	HighRisk RiskLabel = "High Risk"
	LowRisk  RiskLabel = "Low Risk"
)

// RiskVerdict is the output of the risk classifier.
type RiskVerdict struct {
	ForecastedVolatility float64   `json:"forecasted_volatility"`
	HistoricalThreshold  float64   `json:"historical_threshold"`
	Label                RiskLabel `json:"label"`
	RollingWindow        int       `json:"rolling_window"`
	Percentile           float64   `json:"percentile"`
	History              []float64 `json:"history,omitempty"` // rolling std devs used as the baseline
}
