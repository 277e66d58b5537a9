package calculator

import (
	"math"

	"VolSentinel/internal/model"
)

// BuildReturns computes log-returns ln(close[i]/close[i-1]) over the whole
// series, keeps the most recent `window` of them and drops any entry that is
// not finite. It never fails; an empty series is returned when nothing valid
// remains.
func BuildReturns(prices *model.PriceSeries, window int) model.ReturnSeries {
	n := prices.Len()
	if n < 2 || window <= 0 {
		return model.ReturnSeries{}
	}

	start := 1
	if n-1 > window {
		start = n - window
	}

	out := make(model.ReturnSeries, 0, n-start)
	for i := start; i < n; i++ {
		r := LogReturn(prices.Bars[i-1].Close, prices.Bars[i].Close)
		if !model.IsFinite(r) {
			continue
		}
		out = append(out, model.ReturnPoint{Time: prices.Bars[i].Time, Value: r})
	}
	return out
}

// LogReturn returns ln(curr/prev). Non-positive or missing prices yield NaN
// or an infinity, which callers treat as missing.
func LogReturn(prev, curr float64) float64 {
	return math.Log(curr / prev)
}
