package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/internal/query"
	"github.com/jdlee-quant/rebound/internal/store"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

func newHandler(t *testing.T) (*QueryHandler, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := query.NewService(mem, query.Config{
		Threshold:     1.0,
		TopN:          5,
		Top5Selection: contracts.Top5ByEntryDate,
	}, logger.NewNop())
	return NewQueryHandler(svc, logger.NewNop()), mem
}

func seed(t *testing.T, mem *store.MemoryStore) {
	t.Helper()
	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	snap := &contracts.PortfolioSnapshot{
		AsOf: asOf,
		Cash: 100,
		Positions: []contracts.Position{
			{Ticker: "AAPL", EntryPrice: 100, CurrentPrice: 120, EntryDate: asOf, Quantity: 1},
		},
	}
	res := &contracts.ScreeningResult{
		AsOf: asOf,
		TopK: 10,
		Candidates: contracts.CandidateList{
			AsOf: asOf,
			Records: []contracts.DrawdownRecord{
				{Ticker: "LCID", DrawdownRatio: 0.6, Rank: 1},
				{Ticker: "ENPH", DrawdownRatio: 0.5, Rank: 2},
			},
		},
	}
	require.NoError(t, mem.AppendRun(context.Background(), snap, res))
}

func TestGetTopCandidates(t *testing.T) {
	h, mem := newHandler(t)
	seed(t, mem)

	req := httptest.NewRequest(http.MethodGet, "/api/candidates?k=1", nil)
	rec := httptest.NewRecorder()
	h.GetTopCandidates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res contracts.ScreeningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Candidates.Records, 1)
	assert.Equal(t, "LCID", res.Candidates.Records[0].Ticker)
}

func TestGetTopCandidatesEmpty(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
	rec := httptest.NewRecorder()
	h.GetTopCandidates(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTopCandidatesBadK(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/candidates?k=nope", nil)
	rec := httptest.NewRecorder()
	h.GetTopCandidates(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPortfolio(t *testing.T) {
	h, mem := newHandler(t)
	seed(t, mem)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rec := httptest.NewRecorder()
	h.GetPortfolio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap contracts.PortfolioSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Count())
	assert.Equal(t, 100.0, snap.Cash)
}

func TestGetProfitTaking(t *testing.T) {
	h, mem := newHandler(t)
	seed(t, mem)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/profit-taking", nil)
	rec := httptest.NewRecorder()
	h.GetProfitTaking(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status query.ProfitTakingStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.Positions)
	assert.False(t, status.Eligible)
}

func TestGetSummary(t *testing.T) {
	h, mem := newHandler(t)
	seed(t, mem)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?from=2026-08-01&to=2026-08-31", nil)
	rec := httptest.NewRecorder()
	h.GetSummary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary query.HistoricalSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Runs)
	assert.Equal(t, 1, summary.Positions)
}

func TestGetSummaryBadRange(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?from=2026-08-31&to=2026-08-01", nil)
	rec := httptest.NewRecorder()
	h.GetSummary(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
