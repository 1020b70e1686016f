package alpaca

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httputil.New(logger.NewNop()).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), "key", "secret", srv.URL)
}

func TestGetAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "secret", r.Header.Get("APCA-API-SECRET-KEY"))

		w.Write([]byte(`{"id":"abc","status":"ACTIVE","cash":"2500.75","buying_power":"5001.50","portfolio_value":"10000.00"}`))
	})

	acct, err := c.GetAccount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ACTIVE", acct.Status)
	assert.Equal(t, 2500.75, acct.CashValue())
	assert.Equal(t, 10000.0, acct.PortfolioValueAmount())
}

func TestGetPositions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/positions", r.URL.Path)
		w.Write([]byte(`[
			{"symbol":"AAPL","qty":"2.5","avg_entry_price":"100","current_price":"150","market_value":"375","unrealized_pl":"125"},
			{"symbol":"LCID","qty":"100","avg_entry_price":"4","current_price":"3","market_value":"300","unrealized_pl":"-100"}
		]`))
	})

	positions, err := c.GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, 2.5, positions[0].QtyValue())
	assert.Equal(t, 150.0, positions[0].Price())
	assert.Equal(t, -100.0, positions[1].UnrealizedValue())
}

func TestSubmitMarketBuy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/orders", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AAPL", req.Symbol)
		assert.Equal(t, "500.00", req.Notional)
		assert.Equal(t, "buy", req.Side)
		assert.Equal(t, "market", req.Type)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"order-1","symbol":"AAPL","status":"accepted","side":"buy","notional":"500.00"}`))
	})

	order, err := c.SubmitMarketBuy(context.Background(), "AAPL", 500)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "accepted", order.Status)
}

func TestSubmitOrderRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient buying power"}`))
	})

	_, err := c.SubmitMarketSell(context.Background(), "AAPL", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}
