package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"VolSentinel/internal/model"
)

// MockFetcher returns deterministic synthetic data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyStd  float64
	Seed      int64
	DailyData []model.OHLCV
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	if days <= 0 {
		days = 500
	}
	return generateMockBars(m.Price, m.DailyStd, m.Seed, days), nil
}

// generateMockBars walks a price with seeded normal log-returns of the given
// standard deviation.
func generateMockBars(basePrice, dailyStd float64, seed int64, count int) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	if dailyStd <= 0 {
		dailyStd = 0.01
	}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(seed))

	bars := make([]model.OHLCV, count)
	p := basePrice
	for i := 0; i < count; i++ {
		if i > 0 {
			p *= math.Exp(dailyStd * rng.NormFloat64())
		}
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector loads a PriceSeries from a Fetcher.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
}

// NewCollector creates a new Collector. days <= 0 loads the full history.
func NewCollector(fetcher Fetcher, symbol string, days int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days}
}

// Load fetches bars and returns them as an ascending, duplicate-free series.
func (c *Collector) Load(ctx context.Context) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	bars, err = normalize(bars)
	if err != nil {
		return nil, err
	}

	missing := 0
	for _, b := range bars {
		if !model.IsFinite(b.Close) {
			missing++
		}
	}
	if missing > 0 {
		log.Warn().Str("source", c.Fetcher.Name()).Int("rows", missing).Msg("close values missing or unparseable, treated as missing")
	}
	log.Info().Str("source", c.Fetcher.Name()).Str("symbol", c.Symbol).Int("bars", len(bars)).Msg("price series loaded")

	return &model.PriceSeries{
		Symbol:    c.Symbol,
		Source:    c.Fetcher.Name(),
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

// normalize sorts bars by time and rejects duplicate timestamps.
func normalize(bars []model.OHLCV) ([]model.OHLCV, error) {
	out := make([]model.OHLCV, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	for i := 1; i < len(out); i++ {
		if out[i].Time.Equal(out[i-1].Time) {
			return nil, fmt.Errorf("duplicate timestamp %s", out[i].Time.Format("2006-01-02"))
		}
	}
	return out, nil
}
