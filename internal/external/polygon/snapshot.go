package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// Membership filters the market-wide snapshot to the tickers we track.
type Membership interface {
	Contains(ticker string) bool
}

// snapshotResponse is the /v2/snapshot all-tickers payload, trimmed to
// the fields we use.
type snapshotResponse struct {
	Status  string `json:"status"`
	Tickers []struct {
		Ticker string `json:"ticker"`
		Day    struct {
			Close  float64 `json:"c"`
			High   float64 `json:"h"`
			Volume float64 `json:"v"`
		} `json:"day"`
		Updated int64 `json:"updated"` // epoch nanos
	} `json:"tickers"`
}

// Snapshot fetches the market-wide snapshot and returns current quotes
// for members of the universe. Tickers with a non-positive close are
// dropped; their positions go stale rather than repricing to zero.
func (c *Client) Snapshot(ctx context.Context, members Membership, asOf time.Time) (map[string]contracts.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/snapshot/locale/us/markets/stocks/tickers?apiKey=%s", c.baseURL, c.apiKey)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot status %d", contracts.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot response failed: %w", err)
	}

	var payload snapshotResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse snapshot response failed: %w", err)
	}
	if payload.Status != "OK" && payload.Status != "DELAYED" {
		return nil, fmt.Errorf("%w: snapshot status %q", contracts.ErrProviderUnavailable, payload.Status)
	}

	quotes := make(map[string]contracts.Quote)
	for _, item := range payload.Tickers {
		if !members.Contains(item.Ticker) || item.Day.Close <= 0 {
			continue
		}
		quotes[item.Ticker] = contracts.Quote{
			Ticker: item.Ticker,
			Price:  item.Day.Close,
			AsOf:   asOf,
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"universe_quotes": len(quotes),
		"market_tickers":  len(payload.Tickers),
	}).Info("Fetched market snapshot")
	return quotes, nil
}
