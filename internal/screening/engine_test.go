package screening

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

func series(ticker string, peak, current float64) *contracts.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]contracts.PricePoint, 180)
	for i := range points {
		points[i] = contracts.PricePoint{Date: start.AddDate(0, 0, i), Close: peak}
	}
	points[179].Close = current
	return &contracts.PriceSeries{Ticker: ticker, Points: points}
}

func shortSeries(ticker string) *contracts.PriceSeries {
	return &contracts.PriceSeries{Ticker: ticker, Points: []contracts.PricePoint{
		{Date: time.Now(), Close: 50},
	}}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(EngineConfig{LookbackDays: 180, TopK: 10}, logger.NewNop())
}

func TestScreenRanksWorstDrawdownFirst(t *testing.T) {
	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	prices := map[string]*contracts.PriceSeries{
		"AAA": series("AAA", 100, 90), // ratio 0.10
		"BBB": series("BBB", 100, 40), // ratio 0.60
		"CCC": series("CCC", 100, 70), // ratio 0.30
	}

	list, err := newEngine(t).Screen(context.Background(), prices, asOf)
	require.NoError(t, err)
	require.Len(t, list.Records, 3)

	assert.Equal(t, "BBB", list.Records[0].Ticker)
	assert.Equal(t, "CCC", list.Records[1].Ticker)
	assert.Equal(t, "AAA", list.Records[2].Ticker)
	assert.Equal(t, 0, list.Excluded)

	for i, rec := range list.Records {
		assert.Equal(t, i+1, rec.Rank)
		assert.Equal(t, asOf, rec.AsOf)
	}
}

func TestScreenTieBreaksByTicker(t *testing.T) {
	prices := map[string]*contracts.PriceSeries{
		"ZZZ": series("ZZZ", 100, 50),
		"AAA": series("AAA", 100, 50),
		"MMM": series("MMM", 100, 50),
	}

	list, err := newEngine(t).Screen(context.Background(), prices, time.Now())
	require.NoError(t, err)

	got := []string{list.Records[0].Ticker, list.Records[1].Ticker, list.Records[2].Ticker}
	assert.Equal(t, []string{"AAA", "MMM", "ZZZ"}, got)
}

func TestScreenDeterministic(t *testing.T) {
	prices := map[string]*contracts.PriceSeries{
		"AAA": series("AAA", 100, 50),
		"BBB": series("BBB", 100, 50),
		"CCC": series("CCC", 200, 80),
		"DDD": series("DDD", 150, 90),
	}

	// Map iteration order varies; the ranked output must not.
	first, err := newEngine(t).Screen(context.Background(), prices, time.Now())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := newEngine(t).Screen(context.Background(), prices, first.AsOf)
		require.NoError(t, err)
		assert.Equal(t, first.Records, again.Records)
	}
}

func TestScreenPartialFailureIsolation(t *testing.T) {
	// 5 tickers, 1 with insufficient history: 4 ranked, 1 excluded.
	prices := map[string]*contracts.PriceSeries{
		"AAA": series("AAA", 100, 90),
		"BBB": series("BBB", 100, 80),
		"CCC": series("CCC", 100, 70),
		"DDD": series("DDD", 100, 60),
		"NEW": shortSeries("NEW"),
	}

	list, err := newEngine(t).Screen(context.Background(), prices, time.Now())
	require.NoError(t, err)

	assert.Len(t, list.Records, 4)
	assert.Equal(t, 1, list.Excluded)
	assert.False(t, list.Contains("NEW"))
}

func TestScreenInvalidDataExcluded(t *testing.T) {
	bad := series("BAD", 100, 50)
	bad.Points[10].Close = -1

	prices := map[string]*contracts.PriceSeries{
		"BAD": bad,
		"OK":  series("OK", 100, 50),
	}

	list, err := newEngine(t).Screen(context.Background(), prices, time.Now())
	require.NoError(t, err)
	assert.Len(t, list.Records, 1)
	assert.Equal(t, 1, list.Excluded)
}

func TestScreenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(t).Screen(ctx, map[string]*contracts.PriceSeries{
		"AAA": series("AAA", 100, 90),
	}, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTopK(t *testing.T) {
	prices := map[string]*contracts.PriceSeries{
		"AAA": series("AAA", 100, 90),
		"BBB": series("BBB", 100, 40),
		"CCC": series("CCC", 100, 70),
	}

	list, err := newEngine(t).Screen(context.Background(), prices, time.Now())
	require.NoError(t, err)

	top := list.TopK(2)
	require.Len(t, top, 2)
	assert.Equal(t, "BBB", top[0].Ticker)

	// k larger than the list returns everything.
	assert.Len(t, list.TopK(50), 3)
}
