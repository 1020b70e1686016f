package pipeline

import (
	"context"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/external/alpaca"
	"github.com/jdlee-quant/rebound/internal/external/polygon"
	"github.com/jdlee-quant/rebound/internal/universe"
)

// PolygonProvider adapts the Polygon client to the pipeline's price and
// quote ports, scoping the market-wide snapshot to the universe.
type PolygonProvider struct {
	client   *polygon.Client
	universe *universe.Universe
}

// NewPolygonProvider creates the adapter.
func NewPolygonProvider(client *polygon.Client, u *universe.Universe) *PolygonProvider {
	return &PolygonProvider{client: client, universe: u}
}

func (p *PolygonProvider) DailyCloses(ctx context.Context, ticker string, lookbackDays int, asOf time.Time) (*contracts.PriceSeries, error) {
	return p.client.DailyCloses(ctx, ticker, lookbackDays, asOf)
}

func (p *PolygonProvider) Quotes(ctx context.Context, asOf time.Time) (map[string]contracts.Quote, error) {
	return p.client.Snapshot(ctx, p.universe, asOf)
}

// AlpacaBroker adapts the Alpaca client to the execution port.
type AlpacaBroker struct {
	client *alpaca.Client
}

// NewAlpacaBroker creates the adapter.
func NewAlpacaBroker(client *alpaca.Client) *AlpacaBroker {
	return &AlpacaBroker{client: client}
}

func (b *AlpacaBroker) AvailableCash(ctx context.Context) (float64, error) {
	acct, err := b.client.GetAccount(ctx)
	if err != nil {
		return 0, err
	}
	return acct.CashValue(), nil
}

func (b *AlpacaBroker) Buy(ctx context.Context, ticker string, notional float64) error {
	_, err := b.client.SubmitMarketBuy(ctx, ticker, notional)
	return err
}

func (b *AlpacaBroker) Sell(ctx context.Context, ticker string, qty float64) error {
	_, err := b.client.SubmitMarketSell(ctx, ticker, qty)
	return err
}
