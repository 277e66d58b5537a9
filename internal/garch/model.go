package garch

import (
	"math"

	"VolSentinel/internal/model"
)

const (
	// Returns are multiplied by scale before fitting; daily log-returns are
	// otherwise too small for the optimizer to step sensibly.
	scale = 100.0

	backcastSpan  = 75
	backcastDecay = 0.94

	// Upper bound on alpha+beta.
	maxPersistence = 0.99999

	penalty = 1e100
)

var log2Pi = math.Log(2 * math.Pi)

// Model is a fitted GARCH(1,1) with constant mean:
//
//	r_t = mu + e_t
//	s2_t = omega + alpha*e2_{t-1} + beta*s2_{t-1}
//
// All fields are kept on the scaled return axis.
type Model struct {
	mu, omega, alpha, beta float64
	loglik                 float64
	resid                  []float64
	sigma2                 []float64
}

// Params returns the estimated parameters on the original return scale.
func (m *Model) Params() model.GARCHParams {
	n := len(m.resid)
	return model.GARCHParams{
		Mu:            m.mu / scale,
		Omega:         m.omega / (scale * scale),
		Alpha:         m.alpha,
		Beta:          m.beta,
		LogLikelihood: m.loglik + float64(n)*math.Log(scale),
		Observations:  n,
	}
}

// ConditionalVolatility returns the in-sample conditional standard deviations
// on the original scale.
func (m *Model) ConditionalVolatility() []float64 {
	out := make([]float64, len(m.sigma2))
	for i, s2 := range m.sigma2 {
		out[i] = math.Sqrt(s2) / scale
	}
	return out
}

// Forecast returns conditional variance forecasts for steps 1..horizon on the
// original scale.
func (m *Model) Forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	if horizon == 0 || len(m.resid) == 0 {
		return out
	}
	last := len(m.resid) - 1
	e := m.resid[last]
	h := m.omega + m.alpha*e*e + m.beta*m.sigma2[last]
	persistence := m.alpha + m.beta
	for k := 0; k < horizon; k++ {
		if k > 0 {
			h = m.omega + persistence*h
		}
		out[k] = h / (scale * scale)
	}
	return out
}

// unconstrained maps (mu, omega, alpha, beta) to the optimizer's search space.
func unconstrained(mu, omega, alpha, beta float64) []float64 {
	p := (alpha + beta) / maxPersistence
	return []float64{mu, math.Log(omega), logit(p), logit(alpha / (alpha + beta))}
}

// constrained is the inverse of unconstrained; it guarantees omega > 0,
// alpha, beta >= 0 and alpha+beta < 1.
func constrained(x []float64) (mu, omega, alpha, beta float64) {
	mu = x[0]
	omega = math.Exp(x[1])
	persistence := maxPersistence * sigmoid(x[2])
	alpha = persistence * sigmoid(x[3])
	beta = persistence - alpha
	return mu, omega, alpha, beta
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }

// backcast is the exponentially weighted mean of the first squared residuals,
// used as the pre-sample value of both e2 and s2.
func backcast(resid []float64) float64 {
	span := len(resid)
	if span > backcastSpan {
		span = backcastSpan
	}
	var sum, wsum float64
	w := 1.0
	for i := 0; i < span; i++ {
		sum += w * resid[i] * resid[i]
		wsum += w
		w *= backcastDecay
	}
	return sum / wsum
}

// negLogLikelihood evaluates the Gaussian negative log-likelihood and fills
// resid and sigma2 as a side effect.
func negLogLikelihood(r []float64, mu, omega, alpha, beta, bc float64, resid, sigma2 []float64) float64 {
	prevE2, prevS2 := bc, bc
	var acc float64
	for t, x := range r {
		s2 := omega + alpha*prevE2 + beta*prevS2
		if !(s2 > 0) || math.IsInf(s2, 0) {
			return penalty
		}
		e := x - mu
		resid[t] = e
		sigma2[t] = s2
		acc += math.Log(s2) + e*e/s2
		prevE2, prevS2 = e*e, s2
	}
	nll := 0.5 * (float64(len(r))*log2Pi + acc)
	if math.IsNaN(nll) || math.IsInf(nll, 0) {
		return penalty
	}
	return nll
}
