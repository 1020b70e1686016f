// Package handlers holds the HTTP handlers for the query API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jdlee-quant/rebound/internal/query"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// QueryHandler serves the read-only query endpoints.
type QueryHandler struct {
	service *query.Service
	logger  *logger.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(service *query.Service, log *logger.Logger) *QueryHandler {
	return &QueryHandler{
		service: service,
		logger:  log,
	}
}

// GetTopCandidates returns the latest screening top-K.
// GET /api/candidates?k=10
func (h *QueryHandler) GetTopCandidates(w http.ResponseWriter, r *http.Request) {
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "k must be a non-negative integer")
			return
		}
		k = parsed
	}

	res, err := h.service.TopCandidates(r.Context(), k)
	if err != nil {
		h.logger.WithError(err).Error("Top candidates query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "no screening results recorded yet")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// GetPortfolio returns the latest portfolio snapshot.
// GET /api/portfolio
func (h *QueryHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.CurrentPortfolio(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Portfolio query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "no portfolio snapshot recorded yet")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// GetProfitTaking returns the sell-rule status.
// GET /api/portfolio/profit-taking
func (h *QueryHandler) GetProfitTaking(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.ProfitTakingStatus(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Profit-taking query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "no portfolio snapshot recorded yet")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// GetSummary returns the historical aggregate for a date range.
// GET /api/summary?from=2026-01-01&to=2026-08-28 (default: trailing 30 days)
func (h *QueryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from")
		return
	}

	summary, err := h.service.HistoricalSummary(r.Context(), from, to)
	if err != nil {
		h.logger.WithError(err).Error("Summary query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
