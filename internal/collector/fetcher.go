package collector

import (
	"context"

	"VolSentinel/internal/model"
)

// Fetcher loads daily bars for a symbol. days <= 0 asks for everything the
// source has.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}
