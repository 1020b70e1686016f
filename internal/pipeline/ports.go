package pipeline

import (
	"context"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// PriceProvider supplies daily close history per ticker.
type PriceProvider interface {
	DailyCloses(ctx context.Context, ticker string, lookbackDays int, asOf time.Time) (*contracts.PriceSeries, error)
}

// QuoteProvider supplies current quotes for the tracked universe.
type QuoteProvider interface {
	Quotes(ctx context.Context, asOf time.Time) (map[string]contracts.Quote, error)
}

// Broker is the trade execution port. The engine decides transitions;
// the broker applies them to the real account.
type Broker interface {
	AvailableCash(ctx context.Context) (float64, error)
	Buy(ctx context.Context, ticker string, notional float64) error
	Sell(ctx context.Context, ticker string, qty float64) error
}
