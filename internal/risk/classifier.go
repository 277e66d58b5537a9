package risk

import (
	"fmt"

	"VolSentinel/internal/calculator"
	"VolSentinel/internal/config"
	"VolSentinel/internal/model"
)

// HistoryTail is how many of the most recent rolling values are kept on the
// verdict for charting.
const HistoryTail = 100

// InsufficientHistoryError means the return series is too short to produce a
// single full rolling window.
type InsufficientHistoryError struct {
	Available int
	Required  int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for volatility baseline: %d returns, need at least %d", e.Available, e.Required)
}

// Classify compares the forecasted volatility with the given percentile of the
// rolling standard deviation of returns. Strictly greater is HighRisk.
func Classify(forecastVol float64, returns model.ReturnSeries, rollingWindow int, percentile float64) (*model.RiskVerdict, error) {
	if rollingWindow < 2 {
		return nil, &config.ConfigurationError{Field: "rolling_window", Value: rollingWindow, Allowed: ">= 2"}
	}
	if len(returns) < rollingWindow {
		return nil, &InsufficientHistoryError{Available: len(returns), Required: rollingWindow}
	}

	history, err := calculator.RollingStdDev(returns.Values(), rollingWindow)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, &InsufficientHistoryError{Available: len(returns), Required: rollingWindow}
	}

	threshold, err := calculator.Percentile(history, percentile)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "percentile", Value: percentile, Allowed: "[0, 100]"}
	}

	tail := history
	if len(tail) > HistoryTail {
		tail = tail[len(tail)-HistoryTail:]
	}

	return &model.RiskVerdict{
		ForecastedVolatility: forecastVol,
		HistoricalThreshold:  threshold,
		Label:                Label(forecastVol, threshold),
		RollingWindow:        rollingWindow,
		Percentile:           percentile,
		History:              append([]float64(nil), tail...),
	}, nil
}

// Label maps a forecast and threshold to a risk label.
func Label(forecastVol, threshold float64) model.RiskLabel {
	if forecastVol > threshold {
		return model.HighRisk
	}
	return model.LowRisk
}
