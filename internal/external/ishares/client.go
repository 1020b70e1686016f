// Package ishares scrapes the published holdings of the iShares
// Russell 1000 ETF (IWB) to refresh the screening universe.
package ishares

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

const defaultHoldingsURL = "https://www.ishares.com/us/products/239707/ishares-russell-1000-etf"

// Client fetches and parses the IWB holdings page.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewClient creates a holdings client. url overrides the product page
// for tests; empty uses the default.
func NewClient(httpClient *httputil.Client, log *logger.Logger, url string) *Client {
	if url == "" {
		url = defaultHoldingsURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		url:        url,
	}
}

// FetchHoldings downloads the holdings page and extracts ticker
// symbols from the holdings table. Implements universe.Source.
func (c *Client) FetchHoldings(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.GetWithHeaders(ctx, c.url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch holdings page failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holdings page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse holdings page failed: %w", err)
	}

	symbols := parseHoldingsTable(doc)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no holdings found in page")
	}

	c.logger.WithField("count", len(symbols)).Info("Parsed index holdings")
	return symbols, nil
}

// parseHoldingsTable pulls the ticker column out of the holdings
// table. The page renders tickers in the first cell of each row under
// a table flagged with an allHoldings class or id.
func parseHoldingsTable(doc *goquery.Document) []string {
	var symbols []string

	table := doc.Find("table#allHoldingsTable")
	if table.Length() == 0 {
		table = doc.Find("table.allHoldings")
	}
	if table.Length() == 0 {
		// Fall back to any table whose header names a Ticker column.
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			header := strings.ToLower(t.Find("th").First().Text())
			if strings.Contains(header, "ticker") {
				table = t
				return false
			}
			return true
		})
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		ticker := strings.TrimSpace(row.Find("td").First().Text())
		if ticker != "" {
			symbols = append(symbols, ticker)
		}
	})
	return symbols
}
