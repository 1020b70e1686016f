package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/redis"
)

// aggsResponse is the /v2/aggs daily bars payload.
type aggsResponse struct {
	Ticker       string `json:"ticker"`
	Status       string `json:"status"`
	ResultsCount int    `json:"resultsCount"`
	Results      []struct {
		Close     float64 `json:"c"`
		Timestamp int64   `json:"t"` // epoch millis
		Volume    float64 `json:"v"`
	} `json:"results"`
}

// DailyCloses fetches the trailing daily close series for one ticker,
// oldest first. The calendar range is padded so lookbackDays trading
// days fit inside it; the caller trims to its window.
func (c *Client) DailyCloses(ctx context.Context, ticker string, lookbackDays int, asOf time.Time) (*contracts.PriceSeries, error) {
	cacheKey := redis.HistoryKey(ticker, asOf.Format("2006-01-02"))
	if c.cache != nil {
		var cached contracts.PriceSeries
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Pad calendar days to cover weekends and holidays.
	from := asOf.AddDate(0, 0, -(lookbackDays*3/2 + 10))
	url := fmt.Sprintf(
		"%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000&apiKey=%s",
		c.baseURL, ticker, from.Format("2006-01-02"), asOf.Format("2006-01-02"), c.apiKey,
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: aggs status %d for %s", contracts.ErrProviderUnavailable, resp.StatusCode, ticker)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read aggs response failed: %w", err)
	}

	var payload aggsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse aggs response failed: %w", err)
	}

	series := &contracts.PriceSeries{Ticker: ticker}
	for _, bar := range payload.Results {
		series.Points = append(series.Points, contracts.PricePoint{
			Date:  time.UnixMilli(bar.Timestamp).UTC(),
			Close: bar.Close,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"points": len(series.Points),
	}).Debug("Fetched daily closes")

	if c.cache != nil && len(series.Points) > 0 {
		if err := c.cache.Set(ctx, cacheKey, series, redis.TTLHistory); err != nil {
			c.logger.WithError(err).Debug("History cache write failed")
		}
	}
	return series, nil
}
