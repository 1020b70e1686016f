package contracts

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the screening and portfolio engine. Per-ticker
// errors are recoverable (exclude and continue); run-level errors abort
// the run before anything is persisted.
var (
	// ErrInsufficientHistory: fewer valid daily points than the lookback requires.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrInvalidPriceData: non-positive trailing high or otherwise unusable series.
	ErrInvalidPriceData = errors.New("invalid price data")

	// ErrProviderUnavailable: the market data provider failed for the whole run.
	// Retryable by the invoking scheduler, never retried internally.
	ErrProviderUnavailable = errors.New("price provider unavailable")

	// ErrInsufficientCapital: a buy was skipped for lack of capital.
	ErrInsufficientCapital = errors.New("insufficient capital")

	// ErrStaleQuote: a held position's price could not be refreshed.
	ErrStaleQuote = errors.New("stale quote")
)

// DuplicateRunError is returned when a state transition is requested for
// an as-of date already present in the snapshot history. Callers treat
// it as a no-op success, not a failure.
type DuplicateRunError struct {
	AsOf time.Time
}

func (e *DuplicateRunError) Error() string {
	return fmt.Sprintf("run already recorded for %s", e.AsOf.Format("2006-01-02"))
}

// IsDuplicateRun reports whether err is a DuplicateRunError.
func IsDuplicateRun(err error) bool {
	var d *DuplicateRunError
	return errors.As(err, &d)
}

// TickerError wraps a per-ticker failure so callers can keep the ticker
// for observability while still matching the sentinel with errors.Is.
type TickerError struct {
	Ticker string
	Err    error
}

func (e *TickerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Ticker, e.Err)
}

func (e *TickerError) Unwrap() error {
	return e.Err
}
