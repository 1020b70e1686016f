package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// SubmitMarketBuy submits a notional market buy (fractional shares).
func (c *Client) SubmitMarketBuy(ctx context.Context, symbol string, notional float64) (*Order, error) {
	return c.submitOrder(ctx, OrderRequest{
		Symbol:      symbol,
		Notional:    strconv.FormatFloat(notional, 'f', 2, 64),
		Side:        "buy",
		Type:        "market",
		TimeInForce: "day",
	})
}

// SubmitMarketSell submits a market sell for the given quantity.
func (c *Client) SubmitMarketSell(ctx context.Context, symbol string, qty float64) (*Order, error) {
	return c.submitOrder(ctx, OrderRequest{
		Symbol:      symbol,
		Qty:         strconv.FormatFloat(qty, 'f', -1, 64),
		Side:        "sell",
		Type:        "market",
		TimeInForce: "day",
	})
}

func (c *Client) submitOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	resp, err := c.httpClient.PostJSONWithHeaders(ctx, c.baseURL+"/v2/orders", req, c.headers())
	if err != nil {
		return nil, fmt.Errorf("submit order failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("order for %s rejected with %d: %s", req.Symbol, resp.StatusCode, string(body))
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("parse order response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   order.Symbol,
		"side":     order.Side,
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order submitted")
	return &order, nil
}
