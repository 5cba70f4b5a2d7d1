// Package quote provides price oracle implementations.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	"github.com/manivija/tokenwatch/core"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	requestTimeout = 10 * time.Second
	pingAttempts   = 5
)

// CoinGecko implements core.PriceOracle against the public CoinGecko API.
type CoinGecko struct {
	baseURL string
	client  *http.Client
	log     core.Logger
}

// Option is a function that configures a CoinGecko instance
type Option func(*CoinGecko)

// WithBaseURL overrides the API base URL, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *CoinGecko) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *CoinGecko) {
		c.client = client
	}
}

// NewCoinGecko creates a new CoinGecko price oracle.
func NewCoinGecko(log core.Logger, options ...Option) *CoinGecko {
	c := &CoinGecko{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		log:     log,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// GetPrice fetches the current USD price for a token ID. Any transport,
// status or decode failure reports the price as absent; there is no retry
// inside a single call, the Monitor's next cycle is the retry.
func (c *CoinGecko) GetPrice(ctx context.Context, id string) (float64, bool) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Debug("failed to build price request")
		return 0, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Debug("price request failed")
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithField("id", id).WithField("status", resp.StatusCode).Debug("unexpected price response status")
		return 0, false
	}

	// Response shape: {"<id>": {"usd": <price>}}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.WithError(err).WithField("id", id).Debug("failed to decode price response")
		return 0, false
	}

	price, ok := payload[id]["usd"]
	return price, ok
}

// Ping verifies connectivity to the API, retrying transient failures with
// exponential backoff. Used once at startup so a dead endpoint surfaces
// before the Monitor starts cycling.
func (c *CoinGecko) Ping(ctx context.Context) error {
	retry := &backoff.Backoff{
		Min: 100 * time.Millisecond,
		Max: 5 * time.Second,
	}

	var lastErr error
	for i := 0; i < pingAttempts; i++ {
		lastErr = c.ping(ctx)
		if lastErr == nil {
			return nil
		}

		if i == pingAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}

	return fmt.Errorf("price oracle unreachable: %w", lastErr)
}

func (c *CoinGecko) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
