// Package store persists the append-only run history: one portfolio
// snapshot and one screening result per as-of date.
package store

import (
	"context"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// Store is the persistence port for run history. Appends are
// all-or-nothing per run; a second append for an already-recorded as-of
// date fails with DuplicateRunError and writes nothing.
type Store interface {
	// AppendRun atomically records one run's snapshot and screening
	// result. Snapshots are immutable once appended.
	AppendRun(ctx context.Context, snapshot *contracts.PortfolioSnapshot, screening *contracts.ScreeningResult) error

	// HasRun reports whether a run is already recorded for the date.
	HasRun(ctx context.Context, asOf time.Time) (bool, error)

	// LatestSnapshot returns the most recent snapshot, or nil when the
	// history is empty.
	LatestSnapshot(ctx context.Context) (*contracts.PortfolioSnapshot, error)

	// SnapshotRange returns snapshots with from <= as-of <= to, oldest
	// first.
	SnapshotRange(ctx context.Context, from, to time.Time) ([]contracts.PortfolioSnapshot, error)

	// LatestScreening returns the most recent screening result, or nil
	// when none is recorded.
	LatestScreening(ctx context.Context) (*contracts.ScreeningResult, error)
}

// DateKey normalizes an as-of timestamp to its run date. Two runs on
// the same calendar day are the same run.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
