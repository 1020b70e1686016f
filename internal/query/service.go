// Package query is the read-only surface over the persisted run
// history, consumed by the API and the bot-facing commands.
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Config carries the sell-rule parameters the status query reports
// against.
type Config struct {
	Threshold     float64
	TopN          int
	Top5Selection contracts.Top5Selection
}

// Service answers read-only queries over the latest run.
type Service struct {
	store  store.Store
	config Config
	logger *logger.Logger
}

// NewService creates a query service.
func NewService(st store.Store, config Config, log *logger.Logger) *Service {
	if config.TopN <= 0 {
		config.TopN = 5
	}
	return &Service{store: st, config: config, logger: log}
}

// TopCandidates returns the latest screening's top k records. k <= 0
// means the recorded top-K.
func (s *Service) TopCandidates(ctx context.Context, k int) (*contracts.ScreeningResult, error) {
	latest, err := s.store.LatestScreening(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest screening: %w", err)
	}
	if latest == nil {
		return nil, nil
	}

	if k <= 0 {
		k = latest.TopK
	}
	return &contracts.ScreeningResult{
		AsOf: latest.AsOf,
		TopK: k,
		Candidates: contracts.CandidateList{
			AsOf:     latest.AsOf,
			Records:  latest.Candidates.TopK(k),
			Excluded: latest.Candidates.Excluded,
		},
	}, nil
}

// CurrentPortfolio returns the latest snapshot, or nil when no run is
// recorded yet.
func (s *Service) CurrentPortfolio(ctx context.Context) (*contracts.PortfolioSnapshot, error) {
	return s.store.LatestSnapshot(ctx)
}

// ProfitTakingStatus reports how close the portfolio-level sell rule is
// to firing.
type ProfitTakingStatus struct {
	AsOf        time.Time            `json:"as_of"`
	Positions   int                  `json:"positions"`
	Eligible    bool                 `json:"eligible"` // enough positions to evaluate the rule
	AverageGain float64              `json:"average_gain"`
	Threshold   float64              `json:"threshold"`
	Fired       bool                 `json:"fired"`
	TopN        []contracts.Position `json:"top_n,omitempty"`
}

// ProfitTakingStatus evaluates the aggregate rule against the latest
// snapshot without mutating anything.
func (s *Service) ProfitTakingStatus(ctx context.Context) (*ProfitTakingStatus, error) {
	snap, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	if snap == nil {
		return nil, nil
	}

	status := &ProfitTakingStatus{
		AsOf:      snap.AsOf,
		Positions: snap.Count(),
		Threshold: s.config.Threshold,
	}

	avg, ok := snap.TopNAverageGain(s.config.TopN, s.config.Top5Selection)
	if !ok {
		return status, nil
	}

	status.Eligible = true
	status.AverageGain = avg
	status.Fired = avg >= s.config.Threshold
	status.TopN = topNPositions(snap, s.config.TopN, s.config.Top5Selection)
	return status, nil
}

// HistoricalSummary aggregates a snapshot range.
type HistoricalSummary struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	Runs         int       `json:"runs"`
	ClosedTrades int       `json:"closed_trades"`
	RealizedPL   float64   `json:"realized_pl"`
	SkippedBuys  int       `json:"skipped_buys"`
	FinalValue   float64   `json:"final_value"` // last snapshot's cash plus market value
	Positions    int       `json:"positions"`   // open positions at range end
}

// HistoricalSummary summarizes all runs inside [from, to].
func (s *Service) HistoricalSummary(ctx context.Context, from, to time.Time) (*HistoricalSummary, error) {
	snaps, err := s.store.SnapshotRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load snapshot range: %w", err)
	}

	summary := &HistoricalSummary{From: from, To: to, Runs: len(snaps)}
	for i := range snaps {
		snap := &snaps[i]
		summary.ClosedTrades += len(snap.Closed)
		summary.SkippedBuys += len(snap.Skipped)
		for _, c := range snap.Closed {
			summary.RealizedPL += (c.ExitPrice - c.EntryPrice) * c.Quantity
		}
	}
	if len(snaps) > 0 {
		last := &snaps[len(snaps)-1]
		summary.FinalValue = last.Cash + last.TotalMarketValue()
		summary.Positions = last.Count()
	}
	return summary, nil
}

// topNPositions returns the positions the aggregate rule averages,
// best-ordered per the selection mode.
func topNPositions(snap *contracts.PortfolioSnapshot, n int, sel contracts.Top5Selection) []contracts.Position {
	sorted := make([]contracts.Position, len(snap.Positions))
	copy(sorted, snap.Positions)

	switch sel {
	case contracts.Top5ByGain:
		sort.Slice(sorted, func(i, j int) bool {
			gi, gj := sorted[i].GainRatio(), sorted[j].GainRatio()
			if gi != gj {
				return gi > gj
			}
			return sorted[i].Ticker < sorted[j].Ticker
		})
	default:
		sort.Slice(sorted, func(i, j int) bool {
			if !sorted[i].EntryDate.Equal(sorted[j].EntryDate) {
				return sorted[i].EntryDate.After(sorted[j].EntryDate)
			}
			return sorted[i].Ticker < sorted[j].Ticker
		})
	}

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
