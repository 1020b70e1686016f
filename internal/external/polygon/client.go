// Package polygon is the Polygon.io market data client: daily
// aggregate history plus the market-wide snapshot.
package polygon

import (
	"golang.org/x/time/rate"

	"github.com/jdlee-quant/rebound/pkg/httputil"
	"github.com/jdlee-quant/rebound/pkg/logger"
	"github.com/jdlee-quant/rebound/pkg/redis"
)

// Client handles communication with the Polygon REST API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	cache      *redis.Cache
}

// NewClient creates a new Polygon client. cache may be nil; history
// responses are then fetched fresh every run. The local limiter backs
// off requests even when the shared Redis limiter is disabled.
func NewClient(httpClient *httputil.Client, log *logger.Logger, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.polygon.io"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     apiKey,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(20), 20),
	}
}

// WithCache attaches a response cache for daily history.
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}
