package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"VolSentinel/internal/calculator"
	"VolSentinel/internal/config"
	"VolSentinel/internal/garch"
	"VolSentinel/internal/model"
	"VolSentinel/internal/risk"
)

const (
	// MinReturns is the hard floor below which no model is fitted.
	MinReturns = 30
	// ReliableWindowDays is the window below which results carry a warning.
	ReliableWindowDays = 90

	previewRows = 10
)

// Estimator fits a volatility model and forecasts horizon steps ahead.
type Estimator interface {
	FitAndForecast(returns model.ReturnSeries, horizon int) (*model.ForecastResult, error)
}

// Pipeline runs the returns -> fit -> classify sequence. It holds only
// configuration; every Run builds its own series and model.
type Pipeline struct {
	Options   config.Analysis
	Estimator Estimator
	Observer  Observer
}

// New creates a pipeline backed by the GARCH(1,1) estimator.
func New(opts config.Analysis) *Pipeline {
	return &Pipeline{Options: opts, Estimator: garch.NewEstimator()}
}

type run struct {
	id       string
	stage    Stage
	visited  []string
	observer Observer
}

func (r *run) enter(to Stage) {
	from := r.stage
	r.stage = to
	r.visited = append(r.visited, to.String())
	log.Debug().Str("run_id", r.id).Str("from", from.String()).Str("stage", to.String()).Msg("stage transition")
	if r.observer != nil {
		r.observer(Transition{RunID: r.id, From: from, To: to})
	}
}

func (r *run) fail(err error) error {
	from := r.stage
	r.stage = Failed
	r.visited = append(r.visited, Failed.String())
	log.Warn().Str("run_id", r.id).Str("stage", from.String()).Err(err).Msg("run failed")
	if r.observer != nil {
		r.observer(Transition{RunID: r.id, From: from, To: Failed, Err: err})
	}
	return err
}

// Run analyses prices over the most recent windowDays returns. Errors from
// any stage are returned unchanged.
func (p *Pipeline) Run(ctx context.Context, prices *model.PriceSeries, windowDays int) (*model.AnalysisResult, error) {
	r := &run{id: uuid.NewString(), stage: Idle, visited: []string{Idle.String()}, observer: p.Observer}

	r.enter(Validating)
	opts := p.Options
	opts.WindowDays = windowDays
	if err := opts.Validate(); err != nil {
		return nil, r.fail(err)
	}
	if p.Estimator == nil {
		return nil, r.fail(fmt.Errorf("pipeline has no estimator"))
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	r.enter(Building)
	returns := calculator.BuildReturns(prices, windowDays)
	log.Info().
		Str("run_id", r.id).
		Int("prices", prices.Len()).
		Int("window_days", windowDays).
		Int("returns", len(returns)).
		Msg("return series built")
	if len(returns) < MinReturns {
		return nil, r.fail(&InsufficientDataError{Available: len(returns), Required: MinReturns, WindowDays: windowDays})
	}

	var warnings []string
	if windowDays < ReliableWindowDays {
		warnings = append(warnings, fmt.Sprintf(
			"volatility predictions may be unreliable with less than %d days of data (window is %d)",
			ReliableWindowDays, windowDays))
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	r.enter(Fitting)
	forecast, err := p.Estimator.FitAndForecast(returns, opts.Horizon)
	if err != nil {
		return nil, r.fail(err)
	}
	warnings = append(warnings, forecast.Warnings...)
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	r.enter(Classifying)
	verdict, err := risk.Classify(forecast.NextVolatility(), returns, opts.RollingWindow, opts.Percentile)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(Done)
	log.Info().
		Str("run_id", r.id).
		Float64("forecast_vol", verdict.ForecastedVolatility).
		Float64("threshold", verdict.HistoricalThreshold).
		Str("label", string(verdict.Label)).
		Int("warnings", len(warnings)).
		Msg("analysis complete")

	windowed := prices.Tail(windowDays)
	preview := windowed
	if len(preview) > previewRows {
		preview = preview[len(preview)-previewRows:]
	}

	return &model.AnalysisResult{
		RunID:      r.id,
		Symbol:     prices.Symbol,
		Source:     prices.Source,
		WindowDays: windowDays,
		Preview:    preview,
		Returns:    returns,
		Forecast:   forecast,
		Verdict:    verdict,
		Warnings:   warnings,
		Stages:     r.visited,
	}, nil
}
