package model

import (
	"math"
	"time"
)

// OHLCV represents a single daily bar. Missing or unparseable values are NaN.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the bars of one instrument in ascending time order.
type PriceSeries struct {
	Symbol    string
	Source    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Bars)
}

// Closes returns the closing prices in order.
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, p.Len())
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the last n bars, or all of them when n exceeds the length.
func (p *PriceSeries) Tail(n int) []OHLCV {
	if n <= 0 {
		return nil
	}
	if n > len(p.Bars) {
		n = len(p.Bars)
	}
	return p.Bars[len(p.Bars)-n:]
}

// ReturnPoint is the log-return realised at Time (the later bar of the pair).
type ReturnPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ReturnSeries is an ordered sequence of finite log-returns.
type ReturnSeries []ReturnPoint

// Values returns the raw return values.
func (r ReturnSeries) Values() []float64 {
	v := make([]float64, len(r))
	for i, p := range r {
		v[i] = p.Value
	}
	return v
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
