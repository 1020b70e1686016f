package polygon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

type memberSet map[string]bool

func (m memberSet) Contains(t string) bool { return m[t] }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httputil.New(logger.NewNop()).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), "test-key", srv.URL), srv
}

func TestDailyCloses(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v2/aggs/ticker/AAPL/range/1/day/"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "true", r.URL.Query().Get("adjusted"))

		w.Write([]byte(`{
			"ticker": "AAPL", "status": "OK", "resultsCount": 2,
			"results": [
				{"c": 150.5, "t": 1756166400000, "v": 1000},
				{"c": 152.0, "t": 1756252800000, "v": 1200}
			]
		}`))
	})

	series, err := c.DailyCloses(context.Background(), "AAPL", 180, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "AAPL", series.Ticker)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 150.5, series.Points[0].Close)
	assert.Equal(t, 152.0, series.LastClose())
	assert.True(t, series.Points[0].Date.Before(series.Points[1].Date))
}

func TestDailyClosesProviderError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.DailyCloses(context.Background(), "AAPL", 180, time.Now())
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}

func TestSnapshotFiltersToUniverse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/snapshot/locale/us/markets/stocks/tickers", r.URL.Path)
		w.Write([]byte(`{
			"status": "OK",
			"tickers": [
				{"ticker": "AAPL", "day": {"c": 150.0, "h": 151.0, "v": 100}},
				{"ticker": "NOTUS", "day": {"c": 10.0, "h": 11.0, "v": 5}},
				{"ticker": "MSFT", "day": {"c": 0, "h": 0, "v": 0}}
			]
		}`))
	})

	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	quotes, err := c.Snapshot(context.Background(), memberSet{"AAPL": true, "MSFT": true}, asOf)
	require.NoError(t, err)

	// NOTUS is outside the universe, MSFT has no valid close.
	require.Len(t, quotes, 1)
	assert.Equal(t, 150.0, quotes["AAPL"].Price)
	assert.Equal(t, asOf, quotes["AAPL"].AsOf)
}

func TestSnapshotBadStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ERROR", "tickers": []}`))
	})

	_, err := c.Snapshot(context.Background(), memberSet{}, time.Now())
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}
