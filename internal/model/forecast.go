package model

// GARCHParams are the estimated GARCH(1,1) parameters on the return scale.
type GARCHParams struct {
	Mu            float64 `json:"mu"`
	Omega         float64 `json:"omega"`
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	LogLikelihood float64 `json:"log_likelihood"`
	Observations  int     `json:"observations"`
}

// Persistence is alpha + beta.
func (p GARCHParams) Persistence() float64 {
	return p.Alpha + p.Beta
}

// ForecastResult holds the multi-step conditional variance forecast.
// Index 0 is the next step ("tomorrow").
type ForecastResult struct {
	Variance   []float64   `json:"variance"`
	Volatility []float64   `json:"volatility"`
	Params     GARCHParams `json:"params"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Horizon returns the number of forecast steps.
func (f *ForecastResult) Horizon() int {
	return len(f.Variance)
}

// NextVolatility returns the one-step-ahead volatility.
func (f *ForecastResult) NextVolatility() float64 {
	return f.Volatility[0]
}
