package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewService(mem, Config{
		Threshold:     1.0,
		TopN:          5,
		Top5Selection: contracts.Top5ByEntryDate,
	}, logger.NewNop())
	return svc, mem
}

func seedRun(t *testing.T, mem *store.MemoryStore, snap *contracts.PortfolioSnapshot, res *contracts.ScreeningResult) {
	t.Helper()
	require.NoError(t, mem.AppendRun(context.Background(), snap, res))
}

func TestTopCandidatesEmptyHistory(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.TopCandidates(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTopCandidates(t *testing.T) {
	svc, mem := newService(t)

	records := []contracts.DrawdownRecord{
		{Ticker: "BBB", DrawdownRatio: 0.6, Rank: 1, TrailingHigh: 100, CurrentPrice: 40},
		{Ticker: "CCC", DrawdownRatio: 0.3, Rank: 2, TrailingHigh: 100, CurrentPrice: 70},
		{Ticker: "AAA", DrawdownRatio: 0.1, Rank: 3, TrailingHigh: 100, CurrentPrice: 90},
	}
	seedRun(t, mem, &contracts.PortfolioSnapshot{AsOf: day(10)}, &contracts.ScreeningResult{
		AsOf: day(10),
		TopK: 10,
		Candidates: contracts.CandidateList{AsOf: day(10), Records: records, Excluded: 2},
	})

	res, err := svc.TopCandidates(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, res.Candidates.Records, 2)
	assert.Equal(t, "BBB", res.Candidates.Records[0].Ticker)
	assert.Equal(t, 2, res.Candidates.Excluded)
}

func TestProfitTakingStatusNotEligible(t *testing.T) {
	svc, mem := newService(t)

	seedRun(t, mem, &contracts.PortfolioSnapshot{
		AsOf: day(10),
		Positions: []contracts.Position{
			{Ticker: "AAA", EntryPrice: 100, CurrentPrice: 900, EntryDate: day(1), Quantity: 1},
		},
	}, nil)

	status, err := svc.ProfitTakingStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status)

	assert.False(t, status.Eligible)
	assert.False(t, status.Fired)
	assert.Equal(t, 1, status.Positions)
}

func TestProfitTakingStatusFired(t *testing.T) {
	svc, mem := newService(t)

	positions := make([]contracts.Position, 5)
	prices := []float64{220, 210, 200, 190, 180} // avg gain exactly 1.0
	for i, p := range prices {
		positions[i] = contracts.Position{
			Ticker:       string(rune('A'+i)) + "X",
			EntryPrice:   100,
			CurrentPrice: p,
			EntryDate:    day(i + 1),
			Quantity:     1,
		}
	}
	seedRun(t, mem, &contracts.PortfolioSnapshot{AsOf: day(10), Positions: positions}, nil)

	status, err := svc.ProfitTakingStatus(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Eligible)
	assert.InDelta(t, 1.0, status.AverageGain, 1e-9)
	assert.True(t, status.Fired)
	assert.Len(t, status.TopN, 5)
}

func TestHistoricalSummary(t *testing.T) {
	svc, mem := newService(t)

	seedRun(t, mem, &contracts.PortfolioSnapshot{
		AsOf: day(10),
		Cash: 100,
		Positions: []contracts.Position{
			{Ticker: "AAA", EntryPrice: 50, CurrentPrice: 60, EntryDate: day(10), Quantity: 2},
		},
		Skipped: []contracts.SkippedBuy{{Ticker: "BBB", Reason: "insufficient capital"}},
	}, nil)

	seedRun(t, mem, &contracts.PortfolioSnapshot{
		AsOf: day(11),
		Cash: 250,
		Closed: []contracts.ClosedPosition{
			{
				Position:  contracts.Position{Ticker: "AAA", EntryPrice: 50, CurrentPrice: 75, EntryDate: day(10), Quantity: 2},
				ExitPrice: 75,
				ExitDate:  day(11),
			},
		},
	}, nil)

	summary, err := svc.HistoricalSummary(context.Background(), day(10), day(11))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Runs)
	assert.Equal(t, 1, summary.ClosedTrades)
	assert.InDelta(t, 50.0, summary.RealizedPL, 1e-9) // (75-50)*2
	assert.Equal(t, 1, summary.SkippedBuys)
	assert.Equal(t, 250.0, summary.FinalValue)
	assert.Equal(t, 0, summary.Positions)
}

func TestFormatterTopCandidates(t *testing.T) {
	f := NewFormatter()

	assert.Contains(t, f.TopCandidates(nil), "No screening data")

	res := &contracts.ScreeningResult{
		AsOf: day(10),
		Candidates: contracts.CandidateList{
			Records: []contracts.DrawdownRecord{
				{Ticker: "LCID", DrawdownRatio: 0.62, Rank: 1, TrailingHigh: 8.0, CurrentPrice: 3.04, DaysSincePeak: 90},
			},
		},
	}
	text := f.TopCandidates(res)
	assert.Contains(t, text, "LCID")
	assert.Contains(t, text, "-62.0%")
	assert.Contains(t, text, "2026-08-10")
}

func TestFormatterProfitTaking(t *testing.T) {
	f := NewFormatter()

	fired := &ProfitTakingStatus{
		AsOf:        day(10),
		Positions:   5,
		Eligible:    true,
		AverageGain: 1.12,
		Threshold:   1.0,
		Fired:       true,
		TopN: []contracts.Position{
			{Ticker: "AAA", EntryPrice: 100, CurrentPrice: 212},
		},
	}
	text := f.ProfitTaking(fired)
	assert.Contains(t, text, "TAKE PROFIT SIGNAL")
	assert.Contains(t, text, "+112.0%")

	quiet := &ProfitTakingStatus{AsOf: day(10), Positions: 5, Eligible: true, AverageGain: 0.4, Threshold: 1.0}
	assert.Contains(t, f.ProfitTaking(quiet), "No signal")

	small := &ProfitTakingStatus{AsOf: day(10), Positions: 2}
	assert.Contains(t, f.ProfitTaking(small), "Not enough")
}

func TestFormatterPortfolio(t *testing.T) {
	f := NewFormatter()

	assert.Contains(t, f.Portfolio(nil), "No current positions")

	snap := &contracts.PortfolioSnapshot{
		AsOf: day(10),
		Cash: 12.5,
		Positions: []contracts.Position{
			{Ticker: "AAA", EntryPrice: 100, CurrentPrice: 150, Quantity: 1},
			{Ticker: "BBB", EntryPrice: 100, CurrentPrice: 80, Quantity: 1, Stale: true},
		},
	}
	text := f.Portfolio(snap)
	assert.Contains(t, text, "🟢 *AAA*: +50.0%")
	assert.Contains(t, text, "🔴 *BBB*: -20.0%")
	assert.Contains(t, text, "(stale)")
}
