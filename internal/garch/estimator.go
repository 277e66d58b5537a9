package garch

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"VolSentinel/internal/config"
	"VolSentinel/internal/model"
)

const (
	MinObservations      = 30
	ReliableObservations = 90
)

// start grid for (alpha, beta); omega is set by variance targeting.
var (
	gridAlpha = []float64{0.01, 0.05, 0.1, 0.2}
	gridBeta  = []float64{0.5, 0.7, 0.8, 0.9, 0.95}
)

// Estimator fits GARCH(1,1) models by maximum likelihood. It holds no state
// between calls and is safe for concurrent use.
type Estimator struct {
	MinObservations      int
	ReliableObservations int
	MaxIterations        int
}

// NewEstimator returns an Estimator with the standard observation limits.
func NewEstimator() *Estimator {
	return &Estimator{
		MinObservations:      MinObservations,
		ReliableObservations: ReliableObservations,
		MaxIterations:        20000,
	}
}

// FitAndForecast fits the model to returns and forecasts the conditional
// variance for the next horizon steps.
func (e *Estimator) FitAndForecast(returns model.ReturnSeries, horizon int) (*model.ForecastResult, error) {
	if horizon < 1 {
		return nil, &config.ConfigurationError{Field: "horizon", Value: horizon, Allowed: ">= 1"}
	}
	m, err := e.Fit(returns)
	if err != nil {
		return nil, err
	}

	variance := m.Forecast(horizon)
	volatility := make([]float64, horizon)
	for i, v := range variance {
		if !model.IsFinite(v) || v < 0 {
			return nil, fitError(ErrInvalidForecast, len(returns), "step %d variance %v", i+1, v)
		}
		volatility[i] = math.Sqrt(v)
	}

	res := &model.ForecastResult{
		Variance:   variance,
		Volatility: volatility,
		Params:     m.Params(),
	}
	if len(returns) < e.ReliableObservations {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"GARCH fit uses %d observations (< %d); volatility forecast may be unreliable",
			len(returns), e.ReliableObservations))
	}
	return res, nil
}

// Fit estimates a GARCH(1,1) model on the return series.
func (e *Estimator) Fit(returns model.ReturnSeries) (*Model, error) {
	n := len(returns)
	if n < e.MinObservations {
		return nil, fitError(ErrTooFewObservations, n, "need at least %d", e.MinObservations)
	}

	r := make([]float64, n)
	for i, p := range returns {
		if !model.IsFinite(p.Value) {
			return nil, fitError(ErrDegenerateInput, n, "non-finite return at %s", p.Time.Format("2006-01-02"))
		}
		r[i] = p.Value * scale
	}
	if distinct(r) < 2 {
		return nil, fitError(ErrDegenerateInput, n, "fewer than 2 distinct values")
	}

	mean, std := stat.MeanStdDev(r, nil)
	variance := std * std
	if !(variance > 0) || !model.IsFinite(variance) {
		return nil, fitError(ErrDegenerateInput, n, "sample variance %v", variance)
	}

	demeaned := make([]float64, n)
	copy(demeaned, r)
	floats.AddConst(-mean, demeaned)
	bc := backcast(demeaned)

	resid := make([]float64, n)
	sigma2 := make([]float64, n)
	objective := func(x []float64) float64 {
		mu, omega, alpha, beta := constrained(x)
		return negLogLikelihood(r, mu, omega, alpha, beta, bc, resid, sigma2)
	}

	x0 := startingPoint(r, mean, variance, bc, resid, sigma2)

	settings := &optimize.Settings{
		MajorIterations: e.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 200,
		},
	}
	result, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fitError(ErrNoConvergence, n, "%v", err)
	}
	if !converged(result.Status) {
		return nil, fitError(ErrNoConvergence, n, "optimizer status %v after %d iterations", result.Status, result.Stats.MajorIterations)
	}

	mu, omega, alpha, beta := constrained(result.X)
	nll := negLogLikelihood(r, mu, omega, alpha, beta, bc, resid, sigma2)
	if nll >= penalty || !model.IsFinite(nll) {
		return nil, fitError(ErrNoConvergence, n, "non-finite likelihood at optimum")
	}

	m := &Model{
		mu:     mu,
		omega:  omega,
		alpha:  alpha,
		beta:   beta,
		loglik: -nll,
		resid:  append([]float64(nil), resid...),
		sigma2: append([]float64(nil), sigma2...),
	}

	p := m.Params()
	log.Debug().
		Int("observations", n).
		Float64("mu", p.Mu).
		Float64("omega", p.Omega).
		Float64("alpha", p.Alpha).
		Float64("beta", p.Beta).
		Float64("loglik", p.LogLikelihood).
		Str("status", result.Status.String()).
		Msg("garch fit converged")
	return m, nil
}

// startingPoint scans a small (alpha, beta) grid with variance targeting and
// returns the best point in unconstrained coordinates.
func startingPoint(r []float64, mean, variance, bc float64, resid, sigma2 []float64) []float64 {
	best := math.Inf(1)
	var bestX []float64
	for _, a := range gridAlpha {
		for _, b := range gridBeta {
			if a+b >= maxPersistence {
				continue
			}
			omega := variance * (1 - a - b)
			f := negLogLikelihood(r, mean, omega, a, b, bc, resid, sigma2)
			if f < best {
				best = f
				bestX = unconstrained(mean, omega, a, b)
			}
		}
	}
	return bestX
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success,
		optimize.FunctionConvergence,
		optimize.FunctionThreshold,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	}
	return false
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, 2)
	for _, v := range values {
		seen[v] = struct{}{}
		if len(seen) > 1 {
			break
		}
	}
	return len(seen)
}
