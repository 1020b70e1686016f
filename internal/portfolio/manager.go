// Package portfolio implements the position state machine: which
// tickers are held, when new positions open from the screening top-K,
// and when the portfolio-level profit-taking rule liquidates.
package portfolio

import (
	"context"
	"sort"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Config defines the state-machine parameters.
// SSOT: config/strategy/russell_drawdown.yaml sell_rule + sizing
type Config struct {
	TopK          int     // buy candidates considered per run
	SellThreshold float64 // top-N average gain that fires the batch sell
	MinGainFloor  float64 // individual gain floor for batch liquidation
	TopN          int     // positions averaged for the sell signal
	Top5Selection contracts.Top5Selection
	Sizing        SizingConfig
}

// Manager evaluates one run's state transitions.
type Manager struct {
	config Config
	logger *logger.Logger
}

// NewManager creates a new portfolio manager.
func NewManager(config Config, logger *logger.Logger) *Manager {
	if config.TopN <= 0 {
		config.TopN = 5
	}
	return &Manager{config: config, logger: logger}
}

// TopK returns the configured buy-candidate count.
func (m *Manager) TopK() int {
	return m.config.TopK
}

// Input carries everything one evaluation needs. Prior is the latest
// appended snapshot, or nil on the first run.
type Input struct {
	Prior      *contracts.PortfolioSnapshot
	Candidates *contracts.CandidateList
	Quotes     map[string]contracts.Quote
	Cash       float64 // available cash before this run's transitions
	AsOf       time.Time
}

// Evaluate applies the state machine for one as-of date and returns the
// next snapshot. The prior snapshot is never mutated. Transitions run
// in a fixed order: quote refresh, portfolio-level sell check, then
// buys from the screening top-K.
func (m *Manager) Evaluate(ctx context.Context, in Input) (*contracts.PortfolioSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := &contracts.PortfolioSnapshot{
		AsOf: in.AsOf,
		Cash: in.Cash,
	}

	m.refreshPositions(in, next)
	m.applySellRule(in.AsOf, next)
	m.applyBuys(in, next)

	sort.Slice(next.Positions, func(i, j int) bool {
		return next.Positions[i].Ticker < next.Positions[j].Ticker
	})

	m.logger.WithFields(map[string]interface{}{
		"as_of":     in.AsOf.Format("2006-01-02"),
		"positions": len(next.Positions),
		"closed":    len(next.Closed),
		"skipped":   len(next.Skipped),
		"cash":      next.Cash,
	}).Info("Portfolio evaluation completed")

	return next, nil
}

// refreshPositions carries prior positions forward with updated prices.
// A position whose quote is missing is carried forward unchanged and
// flagged stale; it never participates in the batch sell.
func (m *Manager) refreshPositions(in Input, next *contracts.PortfolioSnapshot) {
	if in.Prior == nil {
		return
	}

	for _, pos := range in.Prior.Positions {
		p := pos
		q, ok := in.Quotes[p.Ticker]
		if ok && q.Price > 0 {
			p.CurrentPrice = q.Price
			p.Stale = false
		} else {
			p.Stale = true
			m.logger.WithField("ticker", p.Ticker).Warn("Quote refresh failed, carrying position forward")
		}
		next.Positions = append(next.Positions, p)
	}
}

// applySellRule checks the aggregate profit-taking rule and, when it
// fires, closes every fresh position at or above the individual gain
// floor in the same run. The sell signal is portfolio-level: a single
// position's gain never triggers it on its own.
func (m *Manager) applySellRule(asOf time.Time, next *contracts.PortfolioSnapshot) {
	fresh := freshPositions(next.Positions)
	probe := contracts.PortfolioSnapshot{Positions: fresh}

	avg, ok := probe.TopNAverageGain(m.config.TopN, m.config.Top5Selection)
	if !ok || avg < m.config.SellThreshold {
		return
	}

	m.logger.WithFields(map[string]interface{}{
		"avg_gain":  avg,
		"threshold": m.config.SellThreshold,
	}).Info("Profit-taking rule fired, batch liquidation")

	kept := next.Positions[:0]
	for _, p := range next.Positions {
		if p.Stale || p.GainRatio() < m.config.MinGainFloor {
			kept = append(kept, p)
			continue
		}
		next.Closed = append(next.Closed, contracts.ClosedPosition{
			Position:  p,
			ExitPrice: p.CurrentPrice,
			ExitDate:  asOf,
		})
		next.Cash += p.MarketValue()
	}
	next.Positions = kept

	sort.Slice(next.Closed, func(i, j int) bool {
		return next.Closed[i].Ticker < next.Closed[j].Ticker
	})
}

// applyBuys opens positions for top-K candidates not already held,
// subject to the position cap and available cash. A buy that cannot be
// funded is recorded as skipped and the ticker remains absent.
func (m *Manager) applyBuys(in Input, next *contracts.PortfolioSnapshot) {
	if in.Candidates == nil {
		return
	}

	held := make(map[string]bool, len(next.Positions))
	for _, p := range next.Positions {
		held[p.Ticker] = true
	}

	var targets []contracts.DrawdownRecord
	for _, rec := range in.Candidates.TopK(m.config.TopK) {
		if held[rec.Ticker] {
			continue
		}
		if rec.CurrentPrice <= 0 {
			next.Skipped = append(next.Skipped, contracts.SkippedBuy{
				Ticker: rec.Ticker,
				Reason: "invalid price",
			})
			continue
		}
		targets = append(targets, rec)
	}

	if m.config.Sizing.MaxPositions > 0 {
		slots := m.config.Sizing.MaxPositions - len(next.Positions)
		if slots < 0 {
			slots = 0
		}
		if len(targets) > slots {
			for _, rec := range targets[slots:] {
				next.Skipped = append(next.Skipped, contracts.SkippedBuy{
					Ticker: rec.Ticker,
					Reason: "position limit reached",
				})
			}
			targets = targets[:slots]
		}
	}

	spend, err := m.config.Sizing.spendPerBuy(next.Cash, len(targets))
	if err != nil {
		m.logger.WithError(err).Error("Sizing failed, skipping all buys")
		for _, rec := range targets {
			next.Skipped = append(next.Skipped, contracts.SkippedBuy{Ticker: rec.Ticker, Reason: err.Error()})
		}
		return
	}

	for _, rec := range targets {
		if spend <= 0 || next.Cash < spend {
			next.Skipped = append(next.Skipped, contracts.SkippedBuy{
				Ticker: rec.Ticker,
				Reason: contracts.ErrInsufficientCapital.Error(),
			})
			m.logger.WithFields(map[string]interface{}{
				"ticker": rec.Ticker,
				"cash":   next.Cash,
				"spend":  spend,
			}).Warn("Buy skipped, insufficient capital")
			continue
		}

		next.Positions = append(next.Positions, contracts.Position{
			Ticker:       rec.Ticker,
			EntryPrice:   rec.CurrentPrice,
			EntryDate:    in.AsOf,
			Quantity:     spend / rec.CurrentPrice,
			CurrentPrice: rec.CurrentPrice,
		})
		next.Cash -= spend
	}
}

func freshPositions(positions []contracts.Position) []contracts.Position {
	out := make([]contracts.Position, 0, len(positions))
	for _, p := range positions {
		if !p.Stale {
			out = append(out, p)
		}
	}
	return out
}
