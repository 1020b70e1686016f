// Package alpaca is the Alpaca brokerage client: account state, open
// positions and market order submission.
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Client handles communication with the Alpaca trading API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	secretKey  string
	baseURL    string
}

// NewClient creates a new Alpaca client. baseURL defaults to the paper
// trading host.
func NewClient(httpClient *httputil.Client, log *logger.Logger, apiKey, secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://paper-api.alpaca.markets"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    baseURL,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"APCA-API-KEY-ID":     c.apiKey,
		"APCA-API-SECRET-KEY": c.secretKey,
	}
}

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	resp, err := c.httpClient.GetWithHeaders(ctx, c.baseURL+path, c.headers())
	if err != nil {
		return fmt.Errorf("alpaca request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read alpaca response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alpaca %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parse alpaca response failed: %w", err)
	}
	return nil
}
