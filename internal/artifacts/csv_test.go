package artifacts

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func screeningResult(d int, tickers ...string) *contracts.ScreeningResult {
	records := make([]contracts.DrawdownRecord, len(tickers))
	for i, tk := range tickers {
		records[i] = contracts.DrawdownRecord{
			Ticker:        tk,
			CurrentPrice:  40,
			TrailingHigh:  100,
			DrawdownRatio: 0.6 - float64(i)*0.1,
			Rank:          i + 1,
			AsOf:          day(d),
		}
	}
	return &contracts.ScreeningResult{
		AsOf: day(d),
		TopK: 2,
		Candidates: contracts.CandidateList{
			AsOf:    day(d),
			Records: records,
		},
	}
}

func newWriter(t *testing.T) *Writer {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	return NewWriter(store, logger.NewNop())
}

func parseCSV(t *testing.T, w *Writer, key string) [][]string {
	t.Helper()
	data, err := w.store.Read(context.Background(), key)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteScreening(t *testing.T) {
	w := newWriter(t)
	require.NoError(t, w.WriteScreening(context.Background(), screeningResult(10, "BBB", "CCC", "AAA")))

	rows := parseCSV(t, w, ScreeningFile)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "ticker", "close", "trailing_high", "drawdown_ratio", "rank"}, rows[0])
	assert.Equal(t, []string{"2026-08-10", "BBB", "40", "100", "0.6", "1"}, rows[1])
}

func TestWriteTopCandidatesRestrictsToK(t *testing.T) {
	w := newWriter(t)
	require.NoError(t, w.WriteTopCandidates(context.Background(), screeningResult(10, "BBB", "CCC", "AAA")))

	rows := parseCSV(t, w, CandidatesFile)
	require.Len(t, rows, 3, "header plus top 2")
	assert.Equal(t, "BBB", rows[1][1])
	assert.Equal(t, "CCC", rows[2][1])
}

func TestAppendAcrossDates(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	require.NoError(t, w.WriteScreening(ctx, screeningResult(10, "AAA")))
	require.NoError(t, w.WriteScreening(ctx, screeningResult(11, "BBB")))

	rows := parseCSV(t, w, ScreeningFile)
	require.Len(t, rows, 3)
	assert.Equal(t, "2026-08-10", rows[1][0])
	assert.Equal(t, "2026-08-11", rows[2][0])
}

func TestRerunReplacesSameDate(t *testing.T) {
	w := newWriter(t)
	ctx := context.Background()

	require.NoError(t, w.WriteScreening(ctx, screeningResult(10, "AAA", "BBB")))
	require.NoError(t, w.WriteScreening(ctx, screeningResult(11, "CCC")))

	// Rerun day 10 with different rows: old day-10 rows must vanish.
	require.NoError(t, w.WriteScreening(ctx, screeningResult(10, "DDD")))

	rows := parseCSV(t, w, ScreeningFile)
	require.Len(t, rows, 3)
	assert.Equal(t, "CCC", rows[1][1])
	assert.Equal(t, "DDD", rows[2][1])
}

func TestWriteSnapshotStatuses(t *testing.T) {
	w := newWriter(t)
	snap := &contracts.PortfolioSnapshot{
		AsOf: day(10),
		Positions: []contracts.Position{
			{Ticker: "HELD", EntryPrice: 100, EntryDate: day(1), CurrentPrice: 150, Quantity: 1},
			{Ticker: "NEWB", EntryPrice: 50, EntryDate: day(10), CurrentPrice: 50, Quantity: 1},
			{Ticker: "STAL", EntryPrice: 80, EntryDate: day(2), CurrentPrice: 90, Quantity: 1, Stale: true},
		},
		Closed: []contracts.ClosedPosition{
			{
				Position:  contracts.Position{Ticker: "GONE", EntryPrice: 10, EntryDate: day(3), CurrentPrice: 25, Quantity: 1},
				ExitPrice: 25,
				ExitDate:  day(10),
			},
		},
	}

	require.NoError(t, w.WriteSnapshot(context.Background(), snap))

	rows := parseCSV(t, w, SnapshotsFile)
	require.Len(t, rows, 5)

	status := map[string]string{}
	for _, row := range rows[1:] {
		status[row[1]] = row[6]
	}
	assert.Equal(t, "HELD", status["HELD"])
	assert.Equal(t, "OPENED", status["NEWB"])
	assert.Equal(t, "STALE", status["STAL"])
	assert.Equal(t, "CLOSED", status["GONE"])
}

func TestFSStoreMissingKey(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "nope.csv")
	assert.ErrorIs(t, err, ErrNotExist)
}
