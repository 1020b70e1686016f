package contracts

import (
	"sort"
	"time"
)

// PositionStatus marks how a position appears in a snapshot row.
type PositionStatus string

const (
	StatusHeld   PositionStatus = "HELD"
	StatusOpened PositionStatus = "OPENED"
	StatusClosed PositionStatus = "CLOSED"
	StatusStale  PositionStatus = "STALE"
)

// Position is one open holding. Created on a buy transition, removed on
// a sell transition; CurrentPrice is refreshed each evaluation.
type Position struct {
	Ticker       string    `json:"ticker"`
	EntryPrice   float64   `json:"entry_price"`
	EntryDate    time.Time `json:"entry_date"`
	Quantity     float64   `json:"quantity"`
	CurrentPrice float64   `json:"current_price"`
	Stale        bool      `json:"stale"` // quote refresh failed this run; carried forward
}

// GainRatio returns the unrealized gain ratio (current-entry)/entry.
// A position with no valid entry price reports 0.
func (p *Position) GainRatio() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice
}

// MarketValue returns quantity times current price.
func (p *Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// CostBasis returns quantity times entry price.
func (p *Position) CostBasis() float64 {
	return p.Quantity * p.EntryPrice
}

// ClosedPosition records a position liquidated during a run.
type ClosedPosition struct {
	Position
	ExitPrice float64   `json:"exit_price"`
	ExitDate  time.Time `json:"exit_date"`
}

// SkippedBuy records a buy decision that could not be applied.
type SkippedBuy struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// PortfolioSnapshot is the full portfolio state after one run. Snapshots
// are immutable once appended and form an append-only history keyed by
// as-of date.
type PortfolioSnapshot struct {
	AsOf      time.Time        `json:"as_of"`
	Positions []Position       `json:"positions"`
	Cash      float64          `json:"cash"`
	Closed    []ClosedPosition `json:"closed,omitempty"`
	Skipped   []SkippedBuy     `json:"skipped,omitempty"`
}

// Count returns the number of open positions.
func (s *PortfolioSnapshot) Count() int {
	return len(s.Positions)
}

// GetPosition finds an open position by ticker.
func (s *PortfolioSnapshot) GetPosition(ticker string) (*Position, bool) {
	for i := range s.Positions {
		if s.Positions[i].Ticker == ticker {
			return &s.Positions[i], true
		}
	}
	return nil, false
}

// Top5Selection names how the "top 5" positions for the aggregate sell
// rule are chosen.
type Top5Selection string

const (
	// Top5ByEntryDate selects the five most recently entered positions.
	Top5ByEntryDate Top5Selection = "entry_date"
	// Top5ByGain selects the five best-performing positions.
	Top5ByGain Top5Selection = "gain"
)

// TopNAverageGain returns the average gain ratio across the top n
// positions under the given selection mode. Returns (0, false) when
// fewer than n positions are held.
func (s *PortfolioSnapshot) TopNAverageGain(n int, sel Top5Selection) (float64, bool) {
	if len(s.Positions) < n || n <= 0 {
		return 0, false
	}

	sorted := make([]Position, len(s.Positions))
	copy(sorted, s.Positions)

	switch sel {
	case Top5ByGain:
		sort.Slice(sorted, func(i, j int) bool {
			gi, gj := sorted[i].GainRatio(), sorted[j].GainRatio()
			if gi != gj {
				return gi > gj
			}
			return sorted[i].Ticker < sorted[j].Ticker
		})
	default: // Top5ByEntryDate
		sort.Slice(sorted, func(i, j int) bool {
			if !sorted[i].EntryDate.Equal(sorted[j].EntryDate) {
				return sorted[i].EntryDate.After(sorted[j].EntryDate)
			}
			return sorted[i].Ticker < sorted[j].Ticker
		})
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += sorted[i].GainRatio()
	}
	return sum / float64(n), true
}

// TotalMarketValue sums the market value of all open positions.
func (s *PortfolioSnapshot) TotalMarketValue() float64 {
	var total float64
	for i := range s.Positions {
		total += s.Positions[i].MarketValue()
	}
	return total
}
