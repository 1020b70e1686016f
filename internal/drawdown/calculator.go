// Package drawdown computes the trailing-drawdown metric that drives
// the screening ranking.
package drawdown

import (
	"fmt"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// Calculate computes the drawdown record for one price series over the
// trailing lookback window (trading days). The series must hold at
// least lookbackDays points.
//
// The ratio is (high - current) / high where high is the maximum close
// inside the window, current day inclusive. A current price at or above
// the high yields 0; the ratio never exceeds 1 for positive prices.
func Calculate(series *contracts.PriceSeries, lookbackDays int) (*contracts.DrawdownRecord, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("lookback days must be positive, got %d", lookbackDays)
	}

	if series.Len() < lookbackDays {
		return nil, &contracts.TickerError{
			Ticker: series.Ticker,
			Err:    fmt.Errorf("%w: %d points, need %d", contracts.ErrInsufficientHistory, series.Len(), lookbackDays),
		}
	}

	window := series.Points
	if len(window) > lookbackDays {
		window = window[len(window)-lookbackDays:]
	}

	var (
		high    float64
		highIdx int
	)
	for i, p := range window {
		if p.Close <= 0 {
			return nil, &contracts.TickerError{
				Ticker: series.Ticker,
				Err:    fmt.Errorf("%w: non-positive close %.4f on %s", contracts.ErrInvalidPriceData, p.Close, p.Date.Format("2006-01-02")),
			}
		}
		// Ties resolve to the most recent peak.
		if p.Close >= high {
			high = p.Close
			highIdx = i
		}
	}

	current := window[len(window)-1].Close
	ratio := (high - current) / high
	if ratio < 0 {
		ratio = 0
	}

	return &contracts.DrawdownRecord{
		Ticker:        series.Ticker,
		CurrentPrice:  current,
		TrailingHigh:  high,
		DrawdownRatio: ratio,
		DaysSincePeak: len(window) - 1 - highIdx,
		AsOf:          window[len(window)-1].Date,
	}, nil
}
