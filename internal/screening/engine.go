// Package screening ranks the universe by trailing drawdown.
package screening

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/drawdown"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Engine produces the ranked candidate list for one run.
type Engine struct {
	config EngineConfig
	logger *logger.Logger
}

// EngineConfig defines the screening parameters.
// SSOT: config/strategy/russell_drawdown.yaml screening
type EngineConfig struct {
	LookbackDays int // trailing-high window (trading days)
	TopK         int // buy universe size, used for reporting only
}

// NewEngine creates a new screening engine.
func NewEngine(config EngineConfig, logger *logger.Logger) *Engine {
	return &Engine{
		config: config,
		logger: logger,
	}
}

// Screen computes drawdown records for every series and returns them
// ranked worst drawdown first, ties broken by ticker ascending.
//
// Per-ticker failures (insufficient history, invalid data) exclude that
// ticker and the run continues; the exclusion count is retained on the
// result. Ranking is deterministic for identical input data.
func (e *Engine) Screen(ctx context.Context, prices map[string]*contracts.PriceSeries, asOf time.Time) (*contracts.CandidateList, error) {
	records := make([]contracts.DrawdownRecord, 0, len(prices))
	excluded := 0
	exclusions := map[string]int{} // reason -> count

	for ticker, series := range prices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := drawdown.Calculate(series, e.config.LookbackDays)
		if err != nil {
			excluded++
			exclusions[exclusionReason(err)]++
			e.logger.WithField("ticker", ticker).WithError(err).Debug("Ticker excluded from screening")
			continue
		}

		rec.AsOf = asOf
		records = append(records, *rec)
	}

	// Worst drawdown first; ticker ascending on exact ties so identical
	// input always yields identical ordering.
	sort.Slice(records, func(i, j int) bool {
		if records[i].DrawdownRatio != records[j].DrawdownRatio {
			return records[i].DrawdownRatio > records[j].DrawdownRatio
		}
		return records[i].Ticker < records[j].Ticker
	})

	for i := range records {
		records[i].Rank = i + 1
	}

	e.logger.WithFields(map[string]interface{}{
		"total_input": len(prices),
		"ranked":      len(records),
		"excluded":    excluded,
		"exclusions":  exclusions,
		"as_of":       asOf.Format("2006-01-02"),
	}).Info("Screening completed")

	return &contracts.CandidateList{
		AsOf:     asOf,
		Records:  records,
		Excluded: excluded,
	}, nil
}

func exclusionReason(err error) string {
	switch {
	case errors.Is(err, contracts.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, contracts.ErrInvalidPriceData):
		return "invalid_price_data"
	default:
		return "other"
	}
}
