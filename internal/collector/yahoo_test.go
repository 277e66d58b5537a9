package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700092800,1700006400,1700179200,1700265600],
"indicators":{"quote":[{
"open":[101,100,null,103],
"high":[102,101,null,104],
"low":[99,98,null,101],
"close":[101.5,100.5,null,null],
"volume":[1000,900,null,1100]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, status int, body string) (*YahooFetcher, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Client = srv.Client()
	return f, &gotPath
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	f, gotPath := newTestYahoo(t, http.StatusOK, chartBody)

	bars, err := f.FetchDailyBars(context.Background(), "SPX500", 0)
	require.NoError(t, err)

	assert.True(t, strings.Contains(*gotPath, "%5EGSPC") || strings.Contains(*gotPath, "^GSPC"))
	assert.Contains(t, *gotPath, "range=max")

	// The all-null bar is skipped, the rest are sorted ascending.
	require.Len(t, bars, 3)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 101.5, bars[1].Close)
	assert.True(t, math.IsNaN(bars[2].Close), "null close stays missing")
	assert.Equal(t, 103.0, bars[2].Open)
}

func TestYahooFetcher_TrimsToDays(t *testing.T) {
	f, gotPath := newTestYahoo(t, http.StatusOK, chartBody)

	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Contains(t, *gotPath, "range=1mo")
}

func TestYahooFetcher_Errors(t *testing.T) {
	f, _ := newTestYahoo(t, http.StatusNotFound, "nope")
	_, err := f.FetchDailyBars(context.Background(), "AAPL", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	f, _ = newTestYahoo(t, http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	_, err = f.FetchDailyBars(context.Background(), "NOPE", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")

	f, _ = newTestYahoo(t, http.StatusOK, `{"chart":{"result":[],"error":null}}`)
	_, err = f.FetchDailyBars(context.Background(), "NOPE", 100)
	assert.Error(t, err)
}
