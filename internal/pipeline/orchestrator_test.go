package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/portfolio"
	"github.com/jdlee-quant/rebound/internal/screening"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/internal/universe"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

var asOf = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

type fakePrices struct {
	mu     sync.Mutex
	series map[string]*contracts.PriceSeries
	err    error
}

func (f *fakePrices) DailyCloses(ctx context.Context, ticker string, lookbackDays int, t time.Time) (*contracts.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[ticker]
	if !ok {
		return nil, &contracts.TickerError{Ticker: ticker, Err: contracts.ErrProviderUnavailable}
	}
	return s, nil
}

type fakeQuotes struct {
	quotes map[string]contracts.Quote
	err    error
}

func (f *fakeQuotes) Quotes(ctx context.Context, t time.Time) (map[string]contracts.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeBroker struct {
	mu    sync.Mutex
	cash  float64
	buys  []string
	sells []string
}

func (f *fakeBroker) AvailableCash(ctx context.Context) (float64, error) { return f.cash, nil }

func (f *fakeBroker) Buy(ctx context.Context, ticker string, notional float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buys = append(f.buys, ticker)
	return nil
}

func (f *fakeBroker) Sell(ctx context.Context, ticker string, qty float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sells = append(f.sells, ticker)
	return nil
}

func priceSeries(ticker string, peak, current float64) *contracts.PriceSeries {
	start := asOf.AddDate(0, 0, -200)
	points := make([]contracts.PricePoint, 180)
	for i := range points {
		points[i] = contracts.PricePoint{Date: start.AddDate(0, 0, i), Close: peak}
	}
	points[179].Close = current
	return &contracts.PriceSeries{Ticker: ticker, Points: points}
}

type fixture struct {
	orch   *Orchestrator
	store  *store.MemoryStore
	broker *fakeBroker
}

func newFixture(t *testing.T, prices PriceProvider, quotes QuoteProvider, broker Broker) *fixture {
	t.Helper()
	log := logger.NewNop()
	mem := store.NewMemoryStore()

	orch := NewOrchestrator(Config{
		Universe: universe.NewFromSymbols([]string{"AAA", "BBB", "CCC"}, nil, log),
		Prices:   prices,
		Quotes:   quotes,
		Broker:   broker,
		Screener: screening.NewEngine(screening.EngineConfig{LookbackDays: 180, TopK: 2}, log),
		Manager: portfolio.NewManager(portfolio.Config{
			TopK:          2,
			SellThreshold: 1.0,
			TopN:          5,
			Top5Selection: contracts.Top5ByEntryDate,
			Sizing: portfolio.SizingConfig{
				Mode:         portfolio.SizingEqualWeight,
				MaxPositions: 10,
			},
		}, log),
		Store:          mem,
		LookbackDays:   180,
		InitialCapital: 1000,
	}, log)

	f := &fixture{orch: orch, store: mem}
	if fb, ok := broker.(*fakeBroker); ok {
		f.broker = fb
	}
	return f
}

func defaultPrices() *fakePrices {
	return &fakePrices{series: map[string]*contracts.PriceSeries{
		"AAA": priceSeries("AAA", 100, 90), // ratio 0.10
		"BBB": priceSeries("BBB", 100, 40), // ratio 0.60
		"CCC": priceSeries("CCC", 100, 70), // ratio 0.30
	}}
}

func TestRunFirstTime(t *testing.T) {
	f := newFixture(t, defaultPrices(), &fakeQuotes{}, nil)

	result, err := f.orch.Run(context.Background(), RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)

	assert.False(t, result.Duplicate)
	require.NotNil(t, result.Screening)
	assert.Equal(t, 3, len(result.Screening.Candidates.Records))
	assert.Equal(t, "BBB", result.Screening.Candidates.Records[0].Ticker)

	// Top-2 bought with the initial capital.
	require.NotNil(t, result.Snapshot)
	require.Equal(t, 2, result.Snapshot.Count())
	_, hasBBB := result.Snapshot.GetPosition("BBB")
	_, hasCCC := result.Snapshot.GetPosition("CCC")
	assert.True(t, hasBBB)
	assert.True(t, hasCCC)

	// Persisted.
	latest, err := f.store.LatestSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, asOf, latest.AsOf)
}

func TestRunIdempotentPerDate(t *testing.T) {
	f := newFixture(t, defaultPrices(), &fakeQuotes{}, nil)
	ctx := context.Background()

	first, err := f.orch.Run(ctx, RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	// Second invocation for the same date: no-op success.
	second, err := f.orch.Run(ctx, RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Nil(t, second.Snapshot)

	// History still holds exactly the first run.
	snaps, err := f.store.SnapshotRange(ctx, asOf.AddDate(0, 0, -1), asOf.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	assert.Equal(t, first.Snapshot.Cash, snaps[0].Cash)
}

func TestRunProviderDownAborts(t *testing.T) {
	f := newFixture(t, &fakePrices{err: contracts.ErrProviderUnavailable}, &fakeQuotes{}, nil)

	_, err := f.orch.Run(context.Background(), RunConfig{AsOf: asOf, DryRun: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)

	// Nothing persisted for the failed run.
	exists, err := f.store.HasRun(context.Background(), asOf)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunPartialProviderFailureContinues(t *testing.T) {
	prices := defaultPrices()
	delete(prices.series, "CCC")

	f := newFixture(t, prices, &fakeQuotes{}, nil)
	result, err := f.orch.Run(context.Background(), RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)

	assert.Len(t, result.Screening.Candidates.Records, 2)
	assert.Equal(t, 1, result.Screening.Candidates.Excluded)
}

func TestRunQuoteFailureGoesStale(t *testing.T) {
	f := newFixture(t, defaultPrices(), &fakeQuotes{err: errors.New("snapshot down")}, nil)
	ctx := context.Background()

	_, err := f.orch.Run(ctx, RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)

	// Next day: every held position goes stale but the run succeeds.
	result, err := f.orch.Run(ctx, RunConfig{AsOf: asOf.AddDate(0, 0, 1), DryRun: true})
	require.NoError(t, err)

	for _, p := range result.Snapshot.Positions {
		if !p.EntryDate.Equal(result.AsOf) {
			assert.True(t, p.Stale, "position %s should be stale", p.Ticker)
		}
	}
}

func TestRunSubmitsOrders(t *testing.T) {
	broker := &fakeBroker{cash: 1000}
	f := newFixture(t, defaultPrices(), &fakeQuotes{}, broker)

	_, err := f.orch.Run(context.Background(), RunConfig{AsOf: asOf})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"BBB", "CCC"}, broker.buys)
	assert.Empty(t, broker.sells)
}

func TestRunDryRunSkipsOrders(t *testing.T) {
	broker := &fakeBroker{cash: 1000}
	f := newFixture(t, defaultPrices(), &fakeQuotes{}, broker)

	result, err := f.orch.Run(context.Background(), RunConfig{AsOf: asOf, DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, broker.buys)
	assert.NotContains(t, result.CompletedStages, "S5:Orders")
}
