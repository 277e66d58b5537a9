package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"VolSentinel/internal/config"
	"VolSentinel/internal/garch"
	"VolSentinel/internal/model"
	"VolSentinel/internal/pipeline"
	"VolSentinel/internal/recorder"
	"VolSentinel/internal/risk"
)

// FormatAnalysis renders a completed run as a plain-text report.
func FormatAnalysis(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Volatility risk report | %s | %s (%s)\n\n", time.Now().Format("2006-01-02"), res.Symbol, res.Source))

	if len(res.Preview) > 0 {
		b.WriteString(fmt.Sprintf("Raw data preview (last %d rows)\n", len(res.Preview)))
		b.WriteString(fmt.Sprintf("  %-10s %10s %10s %10s %10s %12s\n", "Date", "Open", "High", "Low", "Close", "Volume"))
		for _, bar := range res.Preview {
			b.WriteString(fmt.Sprintf("  %-10s %10.2f %10.2f %10.2f %10.2f %12.0f\n",
				bar.Time.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Window: %d days | returns used: %d\n", res.WindowDays, len(res.Returns)))
	if n := len(res.Returns); n > 0 {
		b.WriteString(fmt.Sprintf("Return range: %s .. %s\n",
			res.Returns[0].Time.Format("2006-01-02"), res.Returns[n-1].Time.Format("2006-01-02")))
	}

	p := res.Forecast.Params
	b.WriteString("\nGARCH(1,1) parameters\n")
	b.WriteString(fmt.Sprintf("  mu=%.6g omega=%.6g alpha=%.4f beta=%.4f (persistence %.4f)\n",
		p.Mu, p.Omega, p.Alpha, p.Beta, p.Persistence()))
	b.WriteString(fmt.Sprintf("  log-likelihood=%.2f\n", p.LogLikelihood))

	b.WriteString(fmt.Sprintf("\n%d-day volatility forecast\n", res.Forecast.Horizon()))
	for i, v := range res.Forecast.Volatility {
		b.WriteString(fmt.Sprintf("  t+%-3d %.6f  (variance %.3e)\n", i+1, v, res.Forecast.Variance[i]))
	}

	v := res.Verdict
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Tomorrow's predicted volatility: %.6f\n", v.ForecastedVolatility))
	b.WriteString(fmt.Sprintf("%s percentile of %d-day historical volatility: %.6f\n", ordinal(v.Percentile), v.RollingWindow, v.HistoricalThreshold))
	b.WriteString(fmt.Sprintf("Risk level: %s\n", v.Label))

	if len(res.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range res.Warnings {
			b.WriteString(fmt.Sprintf("  ! %s\n", w))
		}
	}
	return b.String()
}

// FormatAlert renders a short HTML message for chat delivery.
func FormatAlert(res *model.AnalysisResult) string {
	var b strings.Builder
	icon := "🟢"
	if res.Verdict.Label == model.HighRisk {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", icon, res.Verdict.Label, res.Symbol))
	b.WriteString(fmt.Sprintf("Tomorrow's volatility: %.4f%%\n", res.Verdict.ForecastedVolatility*100))
	b.WriteString(fmt.Sprintf("%s pct threshold: %.4f%%\n", ordinal(res.Verdict.Percentile), res.Verdict.HistoricalThreshold*100))
	b.WriteString(fmt.Sprintf("Window: %d days (%d returns)\n", res.WindowDays, len(res.Returns)))
	for _, w := range res.Warnings {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", w))
	}
	return b.String()
}

// FormatFailure explains why a run stopped and what the user can do about it.
func FormatFailure(err error) string {
	var (
		dataErr   *pipeline.InsufficientDataError
		histErr   *risk.InsufficientHistoryError
		fitErr    *garch.ModelFitError
		configErr *config.ConfigurationError
	)
	switch {
	case errors.As(err, &configErr):
		return fmt.Sprintf("❌ Invalid setting %s=%v (allowed %s).", configErr.Field, configErr.Value, configErr.Allowed)
	case errors.As(err, &dataErr):
		return fmt.Sprintf("❌ Not enough data to fit GARCH model: %d returns available, %d required. Please select more days or upload a longer history.",
			dataErr.Available, dataErr.Required)
	case errors.As(err, &histErr):
		return fmt.Sprintf("❌ Not enough history for the %d-day volatility baseline (%d returns available).",
			histErr.Required, histErr.Available)
	case errors.As(err, &fitErr):
		switch {
		case errors.Is(err, garch.ErrDegenerateInput):
			return fmt.Sprintf("❌ GARCH fit rejected degenerate input: %s.", fitErr.Detail)
		case errors.Is(err, garch.ErrNoConvergence):
			return fmt.Sprintf("❌ GARCH optimizer did not converge: %s.", fitErr.Detail)
		}
		return fmt.Sprintf("❌ GARCH fit failed: %v", err)
	}
	return fmt.Sprintf("❌ Analysis failed: %v", err)
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []recorder.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-16s %-8s %6s %6s %10s %10s %-10s %s\n",
		"Time", "Symbol", "Window", "Obs", "Forecast", "Threshold", "Label", "Status"))
	for _, r := range runs {
		status := r.Status
		if r.Error != "" {
			status += ": " + r.Error
		}
		b.WriteString(fmt.Sprintf("%-16s %-8s %6d %6d %10.6f %10.6f %-10s %s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Symbol, r.WindowDays, r.Observations,
			r.ForecastVol, r.Threshold, r.Label, status))
	}
	return b.String()
}

type jsonReport struct {
	RunID                string             `json:"run_id"`
	Symbol               string             `json:"symbol"`
	Source               string             `json:"source"`
	WindowDays           int                `json:"window_days"`
	Returns              model.ReturnSeries `json:"returns"`
	ForecastVolatility   []float64          `json:"forecast_volatility"`
	ForecastVariance     []float64          `json:"forecast_variance"`
	HistoricalThreshold  float64            `json:"historical_threshold"`
	HistoricalVolatility []float64          `json:"historical_volatility"`
	RiskLabel            model.RiskLabel    `json:"risk_label"`
	Params               model.GARCHParams  `json:"params"`
	Warnings             []string           `json:"warnings"`
}

// WriteJSON writes the result bundle as indented JSON.
func WriteJSON(w io.Writer, res *model.AnalysisResult) error {
	out := jsonReport{
		RunID:                res.RunID,
		Symbol:               res.Symbol,
		Source:               res.Source,
		WindowDays:           res.WindowDays,
		Returns:              res.Returns,
		ForecastVolatility:   res.Forecast.Volatility,
		ForecastVariance:     res.Forecast.Variance,
		HistoricalThreshold:  res.Verdict.HistoricalThreshold,
		HistoricalVolatility: res.Verdict.History,
		RiskLabel:            res.Verdict.Label,
		Params:               res.Forecast.Params,
		Warnings:             res.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ordinal(p float64) string {
	n := int(p)
	if float64(n) != p {
		return fmt.Sprintf("%g", p)
	}
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
