package alpaca

import (
	"context"
	"fmt"
)

// GetAccount fetches the trading account state.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.get(ctx, "/v2/account", &acct); err != nil {
		return nil, err
	}

	if acct.Status != "ACTIVE" {
		c.logger.WithField("status", acct.Status).Warn("Alpaca account not active")
	}
	return &acct, nil
}

// GetPositions fetches all open positions.
func (c *Client) GetPositions(ctx context.Context) ([]BrokerPosition, error) {
	var positions []BrokerPosition
	if err := c.get(ctx, "/v2/positions", &positions); err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(positions)).Debug("Fetched broker positions")
	return positions, nil
}

// GetPosition fetches one open position by symbol.
func (c *Client) GetPosition(ctx context.Context, symbol string) (*BrokerPosition, error) {
	var pos BrokerPosition
	if err := c.get(ctx, "/v2/positions/"+symbol, &pos); err != nil {
		return nil, fmt.Errorf("position %s: %w", symbol, err)
	}
	return &pos, nil
}
